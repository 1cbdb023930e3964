package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestIsNilMatrix(t *testing.T) {
	var dense *mat.Dense
	assert.True(t, IsNilMatrix(nil))
	assert.True(t, IsNilMatrix(dense))
	assert.False(t, IsNilMatrix(&mat.Dense{}))
	assert.False(t, IsNilMatrix(mat.NewDense(1, 1, nil)))
}
