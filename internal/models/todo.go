package models

type Todo struct {
	ID          int64
	Description string
	Status      bool
}
