package schema

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator checks profiles and generated rows against the canonical schema
// plus the cross-field invariants the struct tags cannot express.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateProfile validates an employee profile.
func (v *Validator) ValidateProfile(p *EmployeeProfile) error {
	if err := v.validate.Struct(p); err != nil {
		return fmt.Errorf("profile %s: %w", p.EmployeeID, err)
	}
	return nil
}

// ValidateRecord validates a daily record against the schema and against the
// owning employee's profile. The profile is needed for the clearance rule:
// only malicious employees may burn above their own classification level.
func (v *Validator) ValidateRecord(r *DailyRecord, p *EmployeeProfile) error {
	if err := v.validate.Struct(r); err != nil {
		return fmt.Errorf("record %s/%s: %w", r.EmployeeID, r.Date.Format("2006-01-02"), err)
	}

	if got := r.Print.NumColorPrints + r.Print.NumBWPrints; got != r.Print.TotalPrintedPages {
		return fmt.Errorf("record %s/%s: color+bw prints %d != total pages %d",
			r.EmployeeID, r.Date.Format("2006-01-02"), got, r.Print.TotalPrintedPages)
	}

	if p != nil && !p.IsMalicious && r.Burn.MaxRequestClassification > p.ClassificationLevel {
		return fmt.Errorf("record %s/%s: burn classification %d exceeds clearance %d for non-malicious employee",
			r.EmployeeID, r.Date.Format("2006-01-02"), r.Burn.MaxRequestClassification, p.ClassificationLevel)
	}

	if r.Travel.IsAbroad && r.Travel.TripDayNumber < 1 {
		return fmt.Errorf("record %s/%s: abroad with trip day number %d",
			r.EmployeeID, r.Date.Format("2006-01-02"), r.Travel.TripDayNumber)
	}

	return nil
}

// ValidateLabel validates a daily label.
func (v *Validator) ValidateLabel(l *DailyLabel) error {
	if err := v.validate.Struct(l); err != nil {
		return fmt.Errorf("label %s/%s: %w", l.EmployeeID, l.Date.Format("2006-01-02"), err)
	}
	if l.DaySuspicious && l.Tier == TierNone {
		return fmt.Errorf("label %s/%s: suspicious day with tier none",
			l.EmployeeID, l.Date.Format("2006-01-02"))
	}
	return nil
}
