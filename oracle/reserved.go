package oracle

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	setupReserved sync.Once
	reservedWords map[string]struct{}
	upper         = cases.Upper(language.Und)
)

// IsReservedWord reports whether w is an Oracle reserved word. Matching is
// case-insensitive since unquoted identifiers are folded to upper case.
func IsReservedWord(w string) bool {
	setupReserved.Do(func() {
		words := strings.Fields(reserved)
		reservedWords = make(map[string]struct{}, len(words))
		for _, s := range words {
			reservedWords[s] = struct{}{}
		}
	})
	_, ok := reservedWords[upper.String(w)]
	return ok
}

// plainIdentifier reports whether name can be written without quotes:
// a letter followed by letters, digits, _, $ or #, at most 128 bytes.
func plainIdentifier(name string) bool {
	if name == "" || len(name) > 128 {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_' || r == '$' || r == '#'):
		default:
			return false
		}
	}
	return true
}

const reserved = `
ACCESS ADD ALL ALTER AND ANY AS ASC AUDIT BETWEEN BY CHAR CHECK CLUSTER
COLUMN COLUMN_VALUE COMMENT COMPRESS CONNECT CREATE CURRENT DATE DECIMAL
DEFAULT DELETE DESC DISTINCT DROP ELSE EXCLUSIVE EXISTS FILE FLOAT FOR FROM
GRANT GROUP HAVING IDENTIFIED IMMEDIATE IN INCREMENT INDEX INITIAL INSERT
INTEGER INTERSECT INTO IS LEVEL LIKE LOCK LONG MAXEXTENTS MINUS MLSLABEL MODE
MODIFY NESTED_TABLE_ID NOAUDIT NOCOMPRESS NOT NOWAIT NULL NUMBER OF OFFLINE ON
ONLINE OPTION OR ORDER PCTFREE PRIOR PUBLIC RAW RENAME RESOURCE REVOKE ROW
ROWID ROWNUM ROWS SELECT SESSION SET SHARE SIZE SMALLINT START SUCCESSFUL
SYNONYM SYSDATE TABLE THEN TO TRIGGER UID UNION UNIQUE UPDATE USER VALIDATE
VALUES VARCHAR VARCHAR2 VIEW WHENEVER WHERE WITH
`
