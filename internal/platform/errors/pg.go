package errors

import (
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstates maps the SQLSTATEs a feature write can raise to project codes.
// Anything else from postgres is ErrorCodeDB.
var sqlstates = map[string]ErrorCode{
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22003": ErrorCodeInvalidArgument, // numeric_value_out_of_range
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"2202E": ErrorCodeInvalidArgument, // array_subscript_error
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"53300": ErrorCodeUnavailable,     // too_many_connections
	"57014": ErrorCodeUnavailable,     // query_canceled, including statement_timeout
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// SQLState returns the SQLSTATE of the first *pgconn.PgError in err's chain
func SQLState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return "", false
	}
	return pgErr.Code, true
}

// FromPostgres wraps err with the code its SQLSTATE maps to, ErrorCodeDB otherwise.
// A nil err stays nil.
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if state, ok := SQLState(err); ok {
		if c, mapped := sqlstates[state]; mapped {
			code = c
		}
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is FromPostgres with a formatted message
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}
