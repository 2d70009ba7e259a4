package models

import "time"

// SettingType hints how a setting value should be cast.
type SettingType string

const (
	SettingTypeString  SettingType = "string"
	SettingTypeInteger SettingType = "integer"
	SettingTypeDecimal SettingType = "decimal"
	SettingTypeBoolean SettingType = "boolean"
)

// Circulation policy setting keys.
const (
	SettingStudentLoanDays    = "student_loan_days"
	SettingFacultyLoanDays    = "faculty_loan_days"
	SettingMaxLoansPerStudent = "max_loans_per_student"
	SettingMaxLoansPerFaculty = "max_loans_per_faculty"
	SettingStudentFinePerDay  = "student_fine_per_day"
	SettingFacultyFinePerDay  = "faculty_fine_per_day"
	SettingLostBookDefaultFee = "lost_book_default_fee"
	SettingLibraryName        = "library_name"
)

// Setting is one key/value policy entry in library_settings.
type Setting struct {
	Key         string      `db:"key" json:"key"`
	Value       string      `db:"value" json:"value"`
	Type        SettingType `db:"type" json:"type"`
	Group       string      `db:"grouping" json:"group"`
	Description *string     `db:"description" json:"description,omitempty"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
