package models

// All lists every persisted model, in the order the schema is created.
func All() []any {
	return []any{&Patient{}, &TestResult{}, &Company{}}
}
