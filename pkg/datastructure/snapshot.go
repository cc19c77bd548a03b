package datastructure

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kelindar/binary"
	"github.com/klauspost/compress/zstd"
)

/*
graphSnapshot. flat, exported view of a RoadNetwork for serialization. parsing
a pbf takes minutes on larger extracts, loading a snapshot takes seconds.
*/
type graphSnapshot struct {
	Nodes         []Coordinate
	FirstOutEdges [][]int32
	Edges         []EdgeData
	TagStrToID    map[string]int
	TagIDToStr    map[int]string
}

func (g *RoadNetwork) WriteSnapshot(w io.Writer) error {
	snapshot := graphSnapshot{
		Nodes:         g.nodes,
		FirstOutEdges: g.firstOutEdges,
		Edges:         g.edges,
		TagStrToID:    g.tagStringIDMap.StrToID,
		TagIDToStr:    g.tagStringIDMap.IDToStr,
	}
	encoded, err := binary.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode graph snapshot: %w", err)
	}

	var compressed bytes.Buffer
	if err := CompressData(encoded, &compressed); err != nil {
		return err
	}
	_, err = io.Copy(w, &compressed)
	return err
}

func ReadSnapshot(r io.Reader) (*RoadNetwork, error) {
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var decompressed bytes.Buffer
	if err := DecompressData(compressed, &decompressed); err != nil {
		return nil, err
	}

	var snapshot graphSnapshot
	if err := binary.Unmarshal(decompressed.Bytes(), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode graph snapshot: %w", err)
	}

	graph := NewRoadNetwork()
	graph.nodes = snapshot.Nodes
	graph.firstOutEdges = snapshot.FirstOutEdges
	graph.edges = snapshot.Edges
	if snapshot.TagStrToID != nil {
		graph.tagStringIDMap.StrToID = snapshot.TagStrToID
	}
	if snapshot.TagIDToStr != nil {
		graph.tagStringIDMap.IDToStr = snapshot.TagIDToStr
	}
	return graph, nil
}

func (g *RoadNetwork) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.WriteSnapshot(f)
}

func LoadFromFile(path string) (*RoadNetwork, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}

func CompressData(inData []byte, bbufOut *bytes.Buffer) error {

	inputBuf := bytes.NewBuffer(inData)
	encoder, err := zstd.NewWriter(bbufOut, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	_, err = io.Copy(encoder, inputBuf)
	if err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

func DecompressData(inData []byte, out io.Writer) error {
	in := bytes.NewBuffer(inData)
	d, err := zstd.NewReader(in)
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = io.Copy(out, d)
	return err
}
