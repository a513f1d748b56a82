package domain

// Direction é a direção de ordenação aceita pelo backend.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Toggle devolve a direção oposta.
func (d Direction) Toggle() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Sort representa a ordenação solicitada (campo + direção).
// Campo vazio significa "ordem padrão do backend".
type Sort struct {
	Field     string
	Direction Direction
}

// Query é o estado de consulta de uma tela de listagem.
// F é o filtro específico da tela (deve ser comparável para detectar mudanças).
type Query[F comparable] struct {
	Page   int // zero-based
	Size   int
	Sort   Sort
	Filter F
}

// Page é uma página de resultados devolvida pelo backend.
// TotalPages e TotalItems são sempre os valores informados pelo servidor.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalPages int
	TotalItems int64
}

// EmptyPage devolve uma página vazia e válida (usada quando o backend responde 404).
func EmptyPage[T any](number, size int) Page[T] {
	return Page[T]{Items: []T{}, Number: number, Size: size}
}

// HasNext indica se existe uma página posterior à atual.
func (p Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages
}
