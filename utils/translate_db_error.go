package utils

import (
	"errors"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type dbMessage struct{ en, idn string }

var (
	msgDuplicate    = dbMessage{"Duplicate value, please use another", "Data sudah ada, gunakan nilai lain"}
	msgDupEmail     = dbMessage{"Email already exists", "Email sudah digunakan"}
	msgDupUsername  = dbMessage{"Username already exists", "Username sudah digunakan"}
	msgDupJob       = dbMessage{"Technician already has a job for this request", "Teknisi sudah memiliki pekerjaan untuk permintaan ini"}
	msgReferenced   = dbMessage{"Referenced package, user or bill does not exist or is still in use", "Paket, pengguna atau tagihan terkait tidak ada atau masih digunakan"}
	msgNotNull      = dbMessage{"Some required fields are missing", "Ada kolom yang wajib diisi namun kosong"}
	msgBadFormat    = dbMessage{"Invalid data format", "Format data tidak valid"}
	msgDBFailure    = dbMessage{"A database error occurred", "Terjadi kesalahan pada database"}
	msgNotFound     = dbMessage{"Record not found", "Data tidak ditemukan"}
	msgTimeout      = dbMessage{"Request timeout", "Permintaan melebihi batas waktu"}
	msgCancelled    = dbMessage{"Request was cancelled", "Permintaan dibatalkan"}
	msgBusyDatabase = dbMessage{"Database is busy, try again", "Database sedang sibuk, coba lagi"}
)

func (m dbMessage) in(lang string) string {
	if lang == "IDN" {
		return m.idn
	}
	return m.en
}

// TranslateDBError turns a database error into a readable message for logs.
func TranslateDBError(err error) string {
	if err == nil {
		return ""
	}
	lang := strings.ToUpper(strings.TrimSpace(os.Getenv("APP_API_RETURN_LANG")))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return duplicateMessage(pgErr.ConstraintName).in(lang)
		case "23503":
			return msgReferenced.in(lang)
		case "23502":
			return msgNotNull.in(lang)
		case "22P02":
			return msgBadFormat.in(lang)
		}
		return msgDBFailure.in(lang)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return msgNotFound.in(lang)
	}

	// sqlite reports constraints only through the message text.
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unique constraint failed"):
		return duplicateMessage(lower).in(lang)
	case strings.Contains(lower, "foreign key constraint failed"):
		return msgReferenced.in(lang)
	case strings.Contains(lower, "not null constraint failed"):
		return msgNotNull.in(lang)
	case strings.Contains(lower, "database is locked"):
		return msgBusyDatabase.in(lang)
	case strings.Contains(lower, "context deadline exceeded"):
		return msgTimeout.in(lang)
	case strings.Contains(lower, "context canceled"):
		return msgCancelled.in(lang)
	}
	return err.Error()
}

// duplicateMessage picks the message for a unique violation from the
// constraint name (postgres) or column list (sqlite).
func duplicateMessage(constraint string) dbMessage {
	c := strings.ToLower(constraint)
	switch {
	case strings.Contains(c, "email"):
		return msgDupEmail
	case strings.Contains(c, "username"):
		return msgDupUsername
	case strings.Contains(c, "idx_job_"), strings.Contains(c, "technician_jobs."):
		return msgDupJob
	}
	return msgDuplicate
}

// IsUniqueViolation reports a unique constraint failure on postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
