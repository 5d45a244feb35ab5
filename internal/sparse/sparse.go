// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sparse implements coordinate and compressed sparse row matrices
// that interoperate with gonum dense matrices.
package sparse

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"

	"github.com/c2h5oh/datasize"
	"gonum.org/v1/gonum/mat"
)

// COO accumulates matrix entries as (row, column, value) triplets. It is
// the cheap format to build incrementally; convert to CSR to compute.
type COO struct {
	rows, cols int
	ri, ci     []int
	vals       []float64
}

// NewCOO returns an empty r by c triplet accumulator.
func NewCOO(r, c int) *COO {
	if r <= 0 || c <= 0 {
		panic("sparse: non-positive dimension")
	}
	return &COO{rows: r, cols: c}
}

// Grow reserves capacity for n additional triplets.
func (m *COO) Grow(n int) {
	m.ri = append(make([]int, 0, len(m.ri)+n), m.ri...)
	m.ci = append(make([]int, 0, len(m.ci)+n), m.ci...)
	m.vals = append(make([]float64, 0, len(m.vals)+n), m.vals...)
}

// Append records one entry. Appending the same position twice sums the
// values on conversion.
func (m *COO) Append(i, j int, v float64) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic("sparse: index out of range")
	}
	m.ri = append(m.ri, i)
	m.ci = append(m.ci, j)
	m.vals = append(m.vals, v)
}

// NNZ returns the number of stored triplets, duplicates included.
func (m *COO) NNZ() int { return len(m.vals) }

// ToCSR sorts the triplets into compressed sparse row form, summing
// duplicate positions.
func (m *COO) ToCSR() *CSR {
	order := make([]int, len(m.vals))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if m.ri[ia] != m.ri[ib] {
			return m.ri[ia] < m.ri[ib]
		}
		return m.ci[ia] < m.ci[ib]
	})

	csr := &CSR{rows: m.rows, cols: m.cols, ptr: make([]int, m.rows+1)}
	prevR, prevC := -1, -1
	for _, k := range order {
		r, c, v := m.ri[k], m.ci[k], m.vals[k]
		if r == prevR && c == prevC {
			csr.vals[len(csr.vals)-1] += v
			continue
		}
		csr.ind = append(csr.ind, c)
		csr.vals = append(csr.vals, v)
		csr.ptr[r+1]++
		prevR, prevC = r, c
	}
	for i := 0; i < m.rows; i++ {
		csr.ptr[i+1] += csr.ptr[i]
	}
	return csr
}

// CSR is a compressed sparse row matrix. It satisfies gonum's mat.Matrix
// so it can be mixed with dense operands.
type CSR struct {
	rows, cols int
	ptr        []int // rows+1 offsets into ind and vals
	ind        []int // column index per stored value, sorted within a row
	vals       []float64
}

// Dims returns the matrix dimensions.
func (m *CSR) Dims() (r, c int) { return m.rows, m.cols }

// At returns the entry at row i, column j. Unstored positions read as 0.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic("sparse: index out of range")
	}
	lo, hi := m.ptr[i], m.ptr[i+1]
	row := m.ind[lo:hi]
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return m.vals[lo+k]
	}
	return 0
}

// T returns the transpose via gonum's lazy wrapper.
func (m *CSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored values.
func (m *CSR) NNZ() int { return len(m.vals) }

// Density returns the stored fraction of all positions.
func (m *CSR) Density() float64 {
	return float64(m.NNZ()) / (float64(m.rows) * float64(m.cols))
}

// MulVec returns the product of the matrix with x.
func (m *CSR) MulVec(x []float64) []float64 {
	if len(x) != m.cols {
		panic(fmt.Sprintf("sparse: vector length %d, want %d", len(x), m.cols))
	}
	y := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		for k := m.ptr[i]; k < m.ptr[i+1]; k++ {
			sum += m.vals[k] * x[m.ind[k]]
		}
		y[i] = sum
	}
	return y
}

// ToDense expands the matrix into a gonum dense matrix.
func (m *CSR) ToDense() *mat.Dense {
	d := mat.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for k := m.ptr[i]; k < m.ptr[i+1]; k++ {
			d.Set(i, m.ind[k], m.vals[k])
		}
	}
	return d
}

// FromDense compresses a dense matrix, dropping entries with absolute
// value at or below tol.
func FromDense(a mat.Matrix, tol float64) *CSR {
	r, c := a.Dims()
	coo := NewCOO(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := a.At(i, j); math.Abs(v) > tol {
				coo.Append(i, j, v)
			}
		}
	}
	return coo.ToCSR()
}

// Identity returns the n by n sparse identity.
func Identity(n int) *CSR {
	coo := NewCOO(n, n)
	for i := 0; i < n; i++ {
		coo.Append(i, i, 1)
	}
	return coo.ToCSR()
}

// Random returns an r by c matrix with the given fraction of positions
// filled with uniform values in [0, 1). The same seed reproduces the
// same matrix.
func Random(r, c int, density float64, seed int64) *CSR {
	if density < 0 || density > 1 {
		panic(fmt.Sprintf("sparse: density %g outside [0, 1]", density))
	}
	rng := rand.New(rand.NewSource(seed))
	total := r * c
	nnz := int(density * float64(total))
	coo := NewCOO(r, c)
	coo.Grow(nnz)
	seen := make(map[int]bool, nnz)
	for len(seen) < nnz {
		k := rng.Intn(total)
		if seen[k] {
			continue
		}
		seen[k] = true
		coo.Append(k/c, k%c, rng.Float64())
	}
	return coo.ToCSR()
}

// MemoryFootprint returns the bytes held by the row pointer, column index
// and value storage.
func (m *CSR) MemoryFootprint() datasize.ByteSize {
	const word = 8
	return datasize.ByteSize(word*len(m.ptr) + word*len(m.ind) + word*len(m.vals))
}

// DenseFootprint returns the bytes a dense float64 matrix of the same
// shape would hold.
func (m *CSR) DenseFootprint() datasize.ByteSize {
	return datasize.ByteSize(8 * m.rows * m.cols)
}

// CompareFootprint writes the sparse and dense storage sizes side by side.
func CompareFootprint(w io.Writer, m *CSR) {
	s, d := m.MemoryFootprint(), m.DenseFootprint()
	fmt.Fprintf(w, "CSR (%d stored):  %s\n", m.NNZ(), s.HumanReadable())
	fmt.Fprintf(w, "dense equivalent: %s\n", d.HumanReadable())
	fmt.Fprintf(w, "sparse uses %.1f%% of dense storage\n", float64(s)/float64(d)*100)
}
