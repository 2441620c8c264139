package grade

import (
	"time"

	"github.com/google/uuid"
)

type GradeRecord struct {
	ID                    uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CadetID               uuid.UUID `gorm:"column:cadet_id;type:uuid;not null;uniqueIndex:uq_grade_cadet_term,priority:1"`
	TermID                uuid.UUID `gorm:"column:term_id;type:uuid;not null;uniqueIndex:uq_grade_cadet_term,priority:2;index"`
	AttendanceDaysPresent int       `gorm:"column:attendance_days_present;not null"`
	Merit                 float64   `gorm:"column:merit;type:numeric(5,2);not null"`
	Demerit               float64   `gorm:"column:demerit;type:numeric(5,2);not null"`
	ExamScoreRaw          float64   `gorm:"column:exam_score_raw;type:numeric(5,2);not null"`
	AttendanceScore       float64   `gorm:"column:attendance_score;type:numeric(5,2);not null"`
	AptitudeScore         float64   `gorm:"column:aptitude_score;type:numeric(5,2);not null"`
	FinalGrade            float64   `gorm:"column:final_grade;type:numeric(5,2);not null"`
	ExamGrade             float64   `gorm:"column:exam_grade;type:numeric(5,2);not null"`
	OverallGrade          float64   `gorm:"column:overall_grade;type:numeric(5,2);not null"`
	Equivalent            float64   `gorm:"column:equivalent;type:numeric(3,2);not null"`
	Status                string    `gorm:"column:status;type:varchar(10);not null"`
	Version               int       `gorm:"column:version;not null;default:1"`
	ComputedBy            string    `gorm:"column:computed_by;type:varchar(100);not null"`
	ComputedAt            time.Time `gorm:"column:computed_at;not null"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (GradeRecord) TableName() string {
	return "grade_records"
}

func (g GradeRecord) Inputs() GradeInputs {
	return GradeInputs{
		AttendanceDaysPresent: g.AttendanceDaysPresent,
		Merit:                 g.Merit,
		Demerit:               g.Demerit,
		ExamScoreRaw:          g.ExamScoreRaw,
	}
}

func (g *GradeRecord) apply(in GradeInputs, res GradeResult) {
	g.AttendanceDaysPresent = in.AttendanceDaysPresent
	g.Merit = in.Merit
	g.Demerit = in.Demerit
	g.ExamScoreRaw = in.ExamScoreRaw
	g.AttendanceScore = res.AttendanceScore
	g.AptitudeScore = res.AptitudeScore
	g.FinalGrade = res.FinalGrade
	g.ExamGrade = res.ExamGrade
	g.OverallGrade = res.OverallGrade
	g.Equivalent = res.Equivalent
	g.Status = res.Status
}
