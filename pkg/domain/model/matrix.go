package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Matrix is the build matrix consumed by the workflow through fromJSON
type Matrix struct {
	Network []Chain `json:"network"`
}

// JSON encodes the matrix as a single-line JSON object
func (m Matrix) JSON() (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal matrix")
	}
	return string(raw), nil
}

// MatrixSelection is the matrix to build and, for release branches, the parsed release
type MatrixSelection struct {
	Matrix  Matrix
	Release *ReleaseRecord // nil unless a release branch was given
}
