package testing

import (
	"testing"

	"github.com/zoobzio/dialectql/internal/types"
)

func TestAssertSQL_Match(t *testing.T) {
	AssertSQL(t, "SELECT 1\nFROM DUAL", "SELECT 1\nFROM DUAL")
}

func TestAssertParams_Match(t *testing.T) {
	AssertParams(t, []string{"p0", "p1"}, []string{"p0", "p1"})
}

func TestAssertParams_EmptySlices(t *testing.T) {
	AssertParams(t, []string{}, nil)
}

func TestReferenceDB_Bitand(t *testing.T) {
	db := ReferenceDB(t)
	var got int64
	if err := db.QueryRow(`SELECT BITAND(-6, 3) FROM DUAL`).Scan(&got); err != nil {
		t.Fatalf("query: %v", err)
	}
	if got != -6&3 {
		t.Errorf("BITAND(-6, 3) = %d, want %d", got, -6&3)
	}
}

func TestReferenceDB_Isolated(t *testing.T) {
	a := ReferenceDB(t)
	b := ReferenceDB(t)
	if _, err := a.Exec(`CREATE TABLE only_in_a (x INTEGER)`); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Exec(`CREATE TABLE only_in_a (x INTEGER)`); err != nil {
		t.Errorf("databases share state: %v", err)
	}
}

func TestFixtures(t *testing.T) {
	ins := InsertDuck(1, "Donald", 3)
	if got := ins.ParameterCount(); got != 2 {
		t.Errorf("InsertDuck parameters = %d, want 2", got)
	}
	if ins.Columns[1].ParameterName != "p2" || ins.Columns[2].ParameterName != "p3" {
		t.Errorf("InsertDuck(1) parameters = %s, %s", ins.Columns[1].ParameterName, ins.Columns[2].ParameterName)
	}
	if !ins.SameShape(InsertDuck(2, "Daisy", 1)) {
		t.Error("ducks should share a shape")
	}

	del := DeleteDuck(1, nil)
	if del.State != types.Deleted || del.ParameterCount() != 1 {
		t.Errorf("DeleteDuck with null token: state %s, %d parameters", del.State, del.ParameterCount())
	}
	if UpdateDuck(1, "x").State != types.Modified {
		t.Error("UpdateDuck state")
	}
}
