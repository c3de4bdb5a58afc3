package adapters

// Adapters groups the adapters exposed to the interface layer
type Adapters struct {
	Todo *TodoAdapter
}

// New creates the adapter set
func New(todo *TodoAdapter) *Adapters {
	return &Adapters{Todo: todo}
}
