package utils

import "time"

// ParseDate interpreta una fecha en formato YYYY-MM-DD; una cadena vacía
// devuelve la fecha cero
func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// DaysInMonth devuelve el número de días del mes (1-12) en el año dado
func DaysInMonth(mes, anio int) int {
	return time.Date(anio, time.Month(mes)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
