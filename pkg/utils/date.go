package utils

import (
	"time"
)

// ParseDate interpreta datas no formato yyyy-mm-dd; string vazia devolve nil (sem limite)
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// EndOfDay leva a data ao último instante do mesmo dia, para limites inclusivos
func EndOfDay(date *time.Time) *time.Time {
	if date == nil {
		return nil
	}

	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), date.Location())
	return &end
}

// MonthStart devolve o primeiro instante do mês de t
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// FormatPeriod formata o mês no padrão mm-yyyy usado nos snapshots
func FormatPeriod(t time.Time) string {
	return t.Format("01-2006")
}

// ParsePeriod converte mm-yyyy no primeiro dia do mês
func ParsePeriod(period string) (time.Time, error) {
	return time.Parse("01-2006", period)
}
