package model

// All lists every table owned by the interrogator, parents first.
func All() []interface{} {
	return []interface{}{
		&QuestionType{},
		&Section{},
		&Group{},
		&Question{},
		&Answer{},
	}
}

// Hosts lists the bundled answerable host tables.
func Hosts() []interface{} {
	return []interface{}{
		&User{},
		&Client{},
	}
}
