// internal/services/excel_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
)

func TestExcelServiceRead(t *testing.T) {
	svc := NewExcelService()

	file := buildSheet(t,
		[]string{"Nombre", "Precio", "Stock"},
		[][]interface{}{
			{"Teclado", "49.99", "10"},
			{"Mouse", "19.99", "25"},
		},
	)

	rows, err := svc.Read(file, []string{"Nombre", "Precio", "Stock"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Teclado", rows[0]["Nombre"])
	assert.Equal(t, "49.99", rows[0]["Precio"])
	assert.Equal(t, "25", rows[1]["Stock"])
}

func TestExcelServiceReadMissingColumn(t *testing.T) {
	svc := NewExcelService()

	file := buildSheet(t,
		[]string{"Nombre"},
		[][]interface{}{{"Teclado"}},
	)

	_, err := svc.Read(file, []string{"Nombre", "Precio"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Precio")
}

func TestExcelServiceReadHeaderExactMatch(t *testing.T) {
	svc := NewExcelService()

	// A header in the wrong case does not satisfy the required column
	file := buildSheet(t,
		[]string{"nombre"},
		[][]interface{}{{"Teclado"}},
	)

	_, err := svc.Read(file, []string{"Nombre"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Nombre")
}

func TestExcelServiceReadTrimsHeaderWhitespace(t *testing.T) {
	svc := NewExcelService()

	file := buildSheet(t,
		[]string{" Nombre "},
		[][]interface{}{{"Teclado"}},
	)

	rows, err := svc.Read(file, []string{"Nombre"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Teclado", rows[0]["Nombre"])
}

func TestExcelServiceReadSkipsBlankRows(t *testing.T) {
	svc := NewExcelService()

	file := buildSheet(t,
		[]string{"Nombre"},
		[][]interface{}{
			{"Teclado"},
			{""},
			{"Mouse"},
		},
	)

	rows, err := svc.Read(file, []string{"Nombre"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mouse", rows[1]["Nombre"])
}

func TestExcelServiceReadRejectsGarbage(t *testing.T) {
	svc := NewExcelService()

	_, err := svc.Read(strings.NewReader("not a spreadsheet"), []string{"Nombre"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
