package envelope

import (
	"encoding/json"
	"fmt"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
)

// Kind identifica o formato de listagem devolvido por um endpoint.
type Kind int

const (
	// HAL: {"_embedded": {"<key>": [...]}, "page": {"size","totalElements","totalPages","number"}}
	HAL Kind = iota
	// SpringPage: {"content": [...], "totalPages", "totalElements", "number", "size"}
	SpringPage
	// Bare: um array JSON sem metadados de paginação.
	Bare
)

func (k Kind) String() string {
	switch k {
	case HAL:
		return "hal"
	case SpringPage:
		return "spring-page"
	case Bare:
		return "bare"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Spec descreve como interpretar a resposta de um endpoint de listagem.
// ListKey só é usado em HAL (e.g., "supplierDTOList").
type Spec struct {
	Kind    Kind
	ListKey string
}

type halPage struct {
	Embedded map[string]json.RawMessage `json:"_embedded"`
	Page     struct {
		Size          int   `json:"size"`
		TotalElements int64 `json:"totalElements"`
		TotalPages    int   `json:"totalPages"`
		Number        int   `json:"number"`
	} `json:"page"`
}

type springPage[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// Decode converte o corpo de uma listagem em domain.Page conforme spec.
// Em HAL, a ausência de _embedded (página vazia) resulta em lista vazia.
// Em Bare, a página é única: TotalPages = 1 se houver itens.
func Decode[T any](spec Spec, body []byte) (domain.Page[T], error) {
	switch spec.Kind {
	case HAL:
		return decodeHAL[T](spec.ListKey, body)
	case SpringPage:
		var sp springPage[T]
		if err := json.Unmarshal(body, &sp); err != nil {
			return domain.Page[T]{}, apperror.NewDecodeError("página inválida", err)
		}
		items := sp.Content
		if items == nil {
			items = []T{}
		}
		return domain.Page[T]{
			Items:      items,
			Number:     sp.Number,
			Size:       sp.Size,
			TotalPages: sp.TotalPages,
			TotalItems: sp.TotalElements,
		}, nil
	case Bare:
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return domain.Page[T]{}, apperror.NewDecodeError("lista inválida", err)
		}
		if items == nil {
			items = []T{}
		}
		p := domain.Page[T]{Items: items, Size: len(items), TotalItems: int64(len(items))}
		if len(items) > 0 {
			p.TotalPages = 1
		}
		return p, nil
	default:
		return domain.Page[T]{}, apperror.NewInternalError(fmt.Sprintf("envelope desconhecido: %s", spec.Kind), nil)
	}
}

func decodeHAL[T any](key string, body []byte) (domain.Page[T], error) {
	var hp halPage
	if err := json.Unmarshal(body, &hp); err != nil {
		return domain.Page[T]{}, apperror.NewDecodeError("página HAL inválida", err)
	}

	items := []T{}
	if raw, ok := hp.Embedded[key]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return domain.Page[T]{}, apperror.NewDecodeError(fmt.Sprintf("lista %s inválida", key), err)
		}
		if items == nil {
			items = []T{}
		}
	}

	return domain.Page[T]{
		Items:      items,
		Number:     hp.Page.Number,
		Size:       hp.Page.Size,
		TotalPages: hp.Page.TotalPages,
		TotalItems: hp.Page.TotalElements,
	}, nil
}

// DecodeObject decodifica um objeto simples (respostas de get/create/update).
func DecodeObject[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, apperror.NewDecodeError("resposta inválida", err)
	}
	return v, nil
}
