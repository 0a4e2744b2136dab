package domain

type Master struct {
	ID             int64
	Name           string
	Specialization string
	IsActive       bool
}
