package sstable

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/ghostiam/binstruct"
	"go.uber.org/zap"

	"cassmapper/pkg/marshal"
)

// SchemaEntry is a column of the sstable with its parsed validation class.
type SchemaEntry struct {
	Name   string
	Class  string
	Type   marshal.Type
	Size   uint64
	Static bool
}

type SSTable struct {
	StatisticsFile string
	Logger         *zap.Logger

	PartitionKey marshal.Type
	Clustering   []marshal.Type
	Schema       []SchemaEntry
}

func New(statisticsFile string, logger *zap.Logger) *SSTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SSTable{
		StatisticsFile: statisticsFile,
		Logger:         logger,
	}
}

// ReadStatistics decodes the statistics file and resolves every key and
// column type through the marshal grammar.
func (sst *SSTable) ReadStatistics() error {
	file, err := os.Open(sst.StatisticsFile)
	if err != nil {
		return fmt.Errorf("open statistics-file: %w", err)
	}
	defer file.Close()

	stats := StatisticsInfo{}
	decoder := binstruct.NewDecoder(file, binary.BigEndian)
	if err := decoder.Decode(&stats); err != nil {
		return fmt.Errorf("decode statistics-file: %w", err)
	}

	return sst.Load(stats.Serialization)
}

// Load fills the sstable schema from a decoded serialization header.
func (sst *SSTable) Load(s Serialization) error {
	pk, err := marshal.Parse(s.PartitionKeyType)
	if err != nil {
		return fmt.Errorf("partition-key: %w", err)
	}
	sst.PartitionKey = pk
	sst.Logger.Debug("partition-key", zap.String("type", pk.String()))

	sst.Clustering = make([]marshal.Type, 0, len(s.ClusteringKey))
	for i, ck := range s.ClusteringKey {
		t, err := marshal.Parse(ck.Type)
		if err != nil {
			return fmt.Errorf("clustering-key[%d]: %w", i, err)
		}
		sst.Clustering = append(sst.Clustering, t)
		sst.Logger.Debug("clustering-key", zap.Int("index", i), zap.String("type", t.String()))
	}

	sst.Schema = make([]SchemaEntry, 0, len(s.StaticColumns)+len(s.RegularColumns))
	for _, c := range s.StaticColumns {
		if err := sst.addColumn(c, true); err != nil {
			return err
		}
	}
	for _, c := range s.RegularColumns {
		if err := sst.addColumn(c, false); err != nil {
			return err
		}
	}

	return nil
}

func (sst *SSTable) addColumn(c Column, static bool) error {
	t, err := marshal.Parse(c.Type)
	if err != nil {
		return fmt.Errorf("column %s: %w", c.Name, err)
	}
	sst.Schema = append(sst.Schema, SchemaEntry{
		Name:   c.Name,
		Class:  c.Type,
		Type:   t,
		Size:   t.Size(),
		Static: static,
	})
	sst.Logger.Debug("column",
		zap.String("name", c.Name),
		zap.String("type", t.String()),
		zap.Bool("static", static),
	)
	return nil
}
