package domain

// ValidationErrors maps a form field name to its failure message.
// An empty map means the form is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

func (v ValidationErrors) Get(field string) string {
	return v[field]
}

func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}
