package renewal

import (
	"fmt"
	"time"

	"github.com/jhoicas/renewal-tracking-api/internal/domain"
)

// Severity franja de urgencia según los días restantes.
type Severity string

const (
	SeverityOverdue  Severity = "overdue"  // < 0 (crítico)
	SeverityCritical Severity = "critical" // 0..30
	SeverityHigh     Severity = "high"     // 31..60
	SeverityMedium   Severity = "medium"   // 61..90
	SeverityNormal   Severity = "normal"   // > 90
)

// Límites superiores inclusivos de cada franja.
const (
	criticalUpTo = 30
	highUpTo     = 60
	mediumUpTo   = 90
)

// RenewalStatus resultado del evaluador.
type RenewalStatus struct {
	DaysRemaining int
	Severity      Severity
}

// Badge representación de la insignia de la vista de lista.
type Badge struct {
	Severity Severity `json:"severity"`
	Label    string   `json:"label"`
	Color    string   `json:"color"`
}

// EvaluateRenewal valida el rango de licencia y calcula los días restantes.
//
// Retorna:
//   - (nil, nil) si falta alguna de las dos fechas: no hay nada que evaluar.
//   - domain.ErrInvalidRange si end <= start (comparación por fecha de calendario).
//   - el estado con DaysRemaining = end - today; negativo si ya venció.
func EvaluateRenewal(start, end, today time.Time) (*RenewalStatus, error) {
	if start.IsZero() || end.IsZero() {
		return nil, nil
	}
	if !civilDate(end).After(civilDate(start)) {
		return nil, domain.ErrInvalidRange
	}
	days := DaysBetween(end, today)
	return &RenewalStatus{DaysRemaining: days, Severity: SeverityFor(days)}, nil
}

// DaysBetween días de calendario de b a a (a - b), con signo.
// Se resta en segundos Unix: time.Duration satura a unos 292 años.
func DaysBetween(a, b time.Time) int {
	return int((civilDate(a).Unix() - civilDate(b).Unix()) / secondsPerDay)
}

// SeverityFor clasifica los días restantes.
func SeverityFor(days int) Severity {
	switch {
	case days < 0:
		return SeverityOverdue
	case days <= criticalUpTo:
		return SeverityCritical
	case days <= highUpTo:
		return SeverityHigh
	case days <= mediumUpTo:
		return SeverityMedium
	default:
		return SeverityNormal
	}
}

// IsCritical true para vencidos y para la franja 0..30.
func (s Severity) IsCritical() bool {
	return s == SeverityOverdue || s == SeverityCritical
}

// Color color de la insignia en la vista de lista.
func (s Severity) Color() string {
	switch s {
	case SeverityOverdue, SeverityCritical:
		return "red"
	case SeverityHigh:
		return "orange"
	case SeverityMedium:
		return "yellow"
	default:
		return "green"
	}
}

// BadgeFor arma la insignia: "N days overdue" para vencidos, "N days" en otro caso.
func BadgeFor(days int) Badge {
	sev := SeverityFor(days)
	label := fmt.Sprintf("%d days", days)
	if days < 0 {
		label = fmt.Sprintf("%d days overdue", -days)
	}
	return Badge{Severity: sev, Label: label, Color: sev.Color()}
}

const secondsPerDay = 24 * 60 * 60

// civilDate descarta la hora y la zona: solo cuenta la fecha de calendario.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
