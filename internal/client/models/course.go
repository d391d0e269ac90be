package models

import "time"

// Course is a paid cooking course as the server describes it. Pricing and
// attendance rules are owned by the server.
type Course struct {
	ID          int64            `json:"id"`
	Name        string           `json:"nombre"`
	Description string           `json:"descripcion"`
	Contents    string           `json:"contenidos,omitempty"`
	Price       float64          `json:"precio"`
	Modality    string           `json:"modalidad,omitempty"`
	Duration    int              `json:"duracion,omitempty"`
	PhotoURL    string           `json:"fotoPrincipal,omitempty"`
	Schedules   []CourseSchedule `json:"cronogramas,omitempty"`
}

// CourseSchedule is one offering of a course at a branch.
type CourseSchedule struct {
	ID        int64     `json:"id"`
	Branch    string    `json:"sede"`
	StartDate time.Time `json:"fechaInicio"`
	EndDate   time.Time `json:"fechaFin"`
	Vacancies int       `json:"vacantesDisponibles"`
}

// Attendance is the server's answer to an attendance check-in.
type Attendance struct {
	CourseID int64  `json:"cursoId"`
	Approved bool   `json:"aprobado"`
	Message  string `json:"mensaje,omitempty"`
}

// Purchase is the server's answer to buying a course.
type Purchase struct {
	CourseID   int64   `json:"cursoId"`
	ScheduleID int64   `json:"cronogramaId"`
	Amount     float64 `json:"monto"`
	Status     string  `json:"estado"`
}
