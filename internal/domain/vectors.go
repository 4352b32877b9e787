package domain

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

//go:embed testdata/score_vectors.json
var builtinVectors []byte

// rawTolerance absorbs floating-point differences between implementations.
const rawTolerance = 1e-9

// ScoreVector is one input/output pair of the shared vector table.
type ScoreVector struct {
	Name  string          `json:"name"`
	Input ForecastReading `json:"input"`
	Raw   float64         `json:"raw"`
	Score Score           `json:"score"`
}

// VectorTable is the language-agnostic table every scoring implementation is
// tested against.
type VectorTable struct {
	Rounding string        `json:"rounding"`
	Vectors  []ScoreVector `json:"vectors"`
}

// VectorMismatch describes a vector this implementation disagrees with.
type VectorMismatch struct {
	Name      string
	WantRaw   float64
	GotRaw    float64
	WantScore Score
	GotScore  Score
}

func (m VectorMismatch) String() string {
	return fmt.Sprintf("%s: raw want %g got %g, score want %d got %d",
		m.Name, m.WantRaw, m.GotRaw, m.WantScore, m.GotScore)
}

// ReadVectorTable decodes a vector table.
func ReadVectorTable(r io.Reader) (VectorTable, error) {
	var t VectorTable
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return VectorTable{}, fmt.Errorf("decode vector table: %w", err)
	}
	return t, nil
}

// BuiltinVectorTable returns the vector table compiled into the binary.
func BuiltinVectorTable() (VectorTable, error) {
	return ReadVectorTable(bytes.NewReader(builtinVectors))
}

// Verify scores every vector and returns the ones that disagree. A table
// pinned to a different rounding policy is an error.
func (t VectorTable) Verify() ([]VectorMismatch, error) {
	if t.Rounding != "" && t.Rounding != RoundingPolicy {
		return nil, fmt.Errorf("vector table uses %q rounding, implementation uses %q", t.Rounding, RoundingPolicy)
	}
	var out []VectorMismatch
	for _, v := range t.Vectors {
		score, b := Calculate(v.Input)
		if score != v.Score || math.Abs(b.Raw-v.Raw) > rawTolerance {
			out = append(out, VectorMismatch{
				Name:      v.Name,
				WantRaw:   v.Raw,
				GotRaw:    b.Raw,
				WantScore: v.Score,
				GotScore:  score,
			})
		}
	}
	return out, nil
}
