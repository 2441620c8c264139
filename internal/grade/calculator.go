package grade

import (
	"math"

	gradeerrors "go-rotc/internal/grade/errors"
)

const (
	MaxAttendanceDays  = 15
	MaxAttendanceScore = 30
	pointsPerDay       = 2

	aptitudeWeight = 30
	examWeight     = 40
	ttlFactor      = 0.3

	DefaultMerit   = 100.0
	DefaultDemerit = 0.0

	PassingEquivalent = 3.0
	FailingEquivalent = 5.0

	StatusPassed = "PASSED"
	StatusFailed = "FAILED"

	// equivalentEpsilon absorbs float error at a breakpoint, e.g. 74.99999999999999 for 75.
	equivalentEpsilon = 1e-9
	// inputScale matches the numeric(5,2) columns the inputs are stored in.
	inputScale = 100
)

type GradeInputs struct {
	AttendanceDaysPresent int
	Merit                 float64
	Demerit               float64
	ExamScoreRaw          float64
}

type GradeResult struct {
	AttendanceScore float64
	AptitudeScore   float64
	FinalGrade      float64
	ExamGrade       float64
	OverallGrade    float64
	Equivalent      float64
	Status          string
}

type step struct {
	min        float64
	equivalent float64
}

// equivalentTable must stay sorted by min, descending.
var equivalentTable = []step{
	{97, 1.00},
	{94, 1.25},
	{91, 1.50},
	{88, 1.75},
	{85, 2.00},
	{82, 2.25},
	{79, 2.50},
	{76, 2.75},
	{75, 3.00},
}

// AttendanceScore awards two points per day, capped at MaxAttendanceScore.
func AttendanceScore(days int) float64 {
	if days <= 0 {
		return 0
	}
	return math.Min(MaxAttendanceScore, float64(days*pointsPerDay))
}

// Equivalent looks up the unrounded overall grade; 74.996 is below 75.
func Equivalent(overall float64) float64 {
	for _, s := range equivalentTable {
		if overall+equivalentEpsilon >= s.min {
			return s.equivalent
		}
	}
	return FailingEquivalent
}

func (in GradeInputs) Validate() error {
	if in.AttendanceDaysPresent < 0 || in.AttendanceDaysPresent > MaxAttendanceDays {
		return gradeerrors.ErrInvalidGradeInput.WithDetail("attendance_days_present %d not in [0,%d]", in.AttendanceDaysPresent, MaxAttendanceDays)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"merit", in.Merit},
		{"demerit", in.Demerit},
		{"exam_score_raw", in.ExamScoreRaw},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 || f.value > 100 {
			return gradeerrors.ErrInvalidGradeInput.WithDetail("%s %v not in [0,100]", f.name, f.value)
		}
		if scaled := f.value * inputScale; math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			return gradeerrors.ErrInvalidGradeInput.WithDetail("%s %v has more than 2 decimal places", f.name, f.value)
		}
	}
	return nil
}

// Compute is deterministic and never clamps out-of-domain input.
func Compute(in GradeInputs) (GradeResult, error) {
	if err := in.Validate(); err != nil {
		return GradeResult{}, err
	}

	// Only reported values are rounded; the equivalent is taken from the exact sum.
	attendance := AttendanceScore(in.AttendanceDaysPresent)
	aptitude := (in.Merit - in.Demerit) * aptitudeWeight / 100
	exam := in.ExamScoreRaw * examWeight / 100
	overall := attendance + in.Demerit*ttlFactor + exam
	equivalent := Equivalent(overall)

	status := StatusFailed
	if equivalent <= PassingEquivalent {
		status = StatusPassed
	}
	return GradeResult{
		AttendanceScore: attendance,
		AptitudeScore:   round2(aptitude),
		FinalGrade:      round2(attendance + aptitude),
		ExamGrade:       round2(exam),
		OverallGrade:    round2(overall),
		Equivalent:      equivalent,
		Status:          status,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
