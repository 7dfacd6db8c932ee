package shared

import (
	"strings"
)

// IsUniqueConstraintError identifica violação de índice único no postgres.
// É o mecanismo que impede postagem duplicada da mesma ocorrência quando
// duas execuções concorrem pela mesma obrigação.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "23505") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "unique constraint") ||
		strings.Contains(errStr, "violates unique constraint")
}
