package domain_test

import (
	"testing"

	"stockify/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLog_SubjectFromSnapshots(t *testing.T) {
	l := domain.Log{
		Entity:        domain.EntityStock,
		OperationType: domain.OperationDelete,
		OldValue:      `{"productName":"parafuso","quantity":3}`,
	}
	assert.Equal(t, "parafuso", l.Subject())
	assert.False(t, l.ShowsNewValue())
	assert.True(t, l.ShowsOldValue())
}

func TestLog_InvalidSnapshotFallsBackToRaw(t *testing.T) {
	snap := domain.ParseSnapshot("not json {")
	assert.Nil(t, snap.Fields)
	assert.Equal(t, "not json {", snap.Raw)

	l := domain.Log{Entity: domain.EntitySupplier, OperationType: domain.OperationCreate, NewValue: "not json {"}
	assert.Equal(t, "Fornecedor desconhecido", l.Subject())
	assert.True(t, l.ShowsNewValue())
	assert.False(t, l.ShowsOldValue())
}

func TestLog_Labels(t *testing.T) {
	assert.Equal(t, "Estoque", domain.EntityStock.Label())
	assert.Equal(t, "Exclusão", domain.OperationDelete.Label())
	assert.Equal(t, "Outro", domain.LogEntity("Outro").Label())
}

func TestPage_HasNextAndDirectionToggle(t *testing.T) {
	p := domain.Page[int]{Number: 1, TotalPages: 3}
	assert.True(t, p.HasNext())
	p.Number = 2
	assert.False(t, p.HasNext())
	assert.False(t, domain.EmptyPage[int](0, 10).HasNext())

	assert.Equal(t, domain.Desc, domain.Asc.Toggle())
	assert.Equal(t, domain.Asc, domain.Desc.Toggle())
	assert.Equal(t, domain.Desc, domain.Direction("").Toggle())
}
