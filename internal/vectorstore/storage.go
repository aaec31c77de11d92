package vectorstore

// Hit is a nearest-neighbour result: the position of a stored vector and its
// squared Euclidean distance to the query.
type Hit struct {
	Position int
	Distance float64
}

// Index holds one vector per chunk, in chunk order, and answers
// nearest-neighbour queries. Implementations are immutable after construction.
type Index interface {
	Len() int
	Dimension() int
	Vector(position int) []float32
	Search(query []float32, k int) ([]Hit, error)
}
