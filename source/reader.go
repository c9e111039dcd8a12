// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/akualab/regime/series"
	"github.com/golang/glog"
)

// Seq is a data format to represent a sequence of observations.
// We use it to read json data. When Returns is empty, returns are
// computed from Prices.
type Seq struct {
	ID      string    `json:"id"`
	Returns []float64 `json:"returns,omitempty"`
	Prices  []float64 `json:"prices,omitempty"`
	Log     bool      `json:"log,omitempty"`
}

// Observations returns the return series of the sequence.
func (s Seq) Observations() ([]float64, error) {

	if len(s.Returns) > 0 {
		return s.Returns, nil
	}
	if s.Log {
		return series.LogReturns(s.Prices)
	}
	return series.Returns(s.Prices)
}

// Reader reads sequences as a stream of JSON objects from an io.Reader.
//
// Example to create a Reader from a file (error handling ignored for brevity).
//
//   f, _ := os.Open(fn)          // Open file.
//   rd := NewReader(f)           // Create reader.
//   obs, _ := rd.Generate(100)   // Last 100 returns of the next sequence.
//   _ = rd.Close()               // Closes the underlying file reader.
type Reader struct {
	reader io.Reader
	dec    *json.Decoder
}

// NewReader creates a new Reader.
func NewReader(reader io.Reader) *Reader {
	return &Reader{
		reader: reader,
		dec:    json.NewDecoder(reader),
	}
}

// Next returns the next sequence. Returns io.EOF when no more sequences
// are available.
func (rd *Reader) Next() (Seq, error) {

	var s Seq
	err := rd.dec.Decode(&s)
	if err == io.EOF {
		return s, io.EOF
	}
	if err != nil {
		return s, fmt.Errorf("can't decode sequence: %w", err)
	}
	return s, nil
}

// Generate returns the last count observations of the next sequence.
func (rd *Reader) Generate(count int) ([]float64, error) {

	s, err := rd.Next()
	if err != nil {
		return nil, err
	}
	obs, err := s.Observations()
	if err != nil {
		return nil, fmt.Errorf("sequence [%s]: %w", s.ID, err)
	}
	if count <= 0 || count > len(obs) {
		return nil, fmt.Errorf("sequence [%s]: count must be in [1, %d], got %d", s.ID, len(obs), count)
	}
	return obs[len(obs)-count:], nil
}

// ReadAll returns the observations of all remaining sequences.
func (rd *Reader) ReadAll() (ids []string, seqs [][]float64, err error) {

	for {
		s, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		obs, err := s.Observations()
		if err != nil {
			return nil, nil, fmt.Errorf("sequence [%s]: %w", s.ID, err)
		}
		ids = append(ids, s.ID)
		seqs = append(seqs, obs)
	}
	glog.V(1).Infof("reader: read %d sequences", len(seqs))
	return ids, seqs, nil
}

// Close underlying reader if reader implements the io.Closer interface.
func (rd *Reader) Close() error {

	if c, ok := rd.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
