package utils

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var indonesianDays = [...]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

// FormatRupiah renders 150000 as "Rp 150.000".
func FormatRupiah(amount int64) string {
	return "Rp " + idPrinter.Sprintf("%d", amount)
}

// FormatDateID renders a unix timestamp as "Senin, 5 Mei 2025".
func FormatDateID(unix int64) string {
	t := time.Unix(unix, 0)
	return fmt.Sprintf("%s, %d %s %d", indonesianDays[t.Weekday()], t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

// PeriodLabel renders the month of t as "Mei 2025".
func PeriodLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", indonesianMonths[t.Month()-1], t.Year())
}
