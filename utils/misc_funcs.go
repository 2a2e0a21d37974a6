package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BillNumber formats a bill id as BILL-000123.
func BillNumber(id uint) string {
	return fmt.Sprintf("BILL-%06d", id)
}

// NormalizePhone converts local Indonesian numbers (08xx) to +62 form for SMS.
func NormalizePhone(phone string) string {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "+"):
		return p
	case strings.HasPrefix(p, "62"):
		return "+" + p
	case strings.HasPrefix(p, "0"):
		return "+62" + p[1:]
	default:
		return "+62" + p
	}
}

// UniqueFilename keeps the extension of original and replaces the rest with a uuid.
func UniqueFilename(prefix, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext)
}

func StrPtr(s string) *string { return &s }

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
