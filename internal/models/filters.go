package models

// TaskFilters is an ephemeral query descriptor for listing tasks. Zero values
// mean "no constraint" and are omitted from the request entirely, never sent
// as empty parameters.
type TaskFilters struct {
	Status   string   // "completed" or "incomplete"
	Priority Priority
	Tag      string   // tag name
	Search   string   // free text over title and description
	Overdue  bool
	Sort     string   // created_at, updated_at, due_date, priority, title
	Order    string   // "asc" or "desc"
}
