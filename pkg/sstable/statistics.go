package sstable

import "github.com/ghostiam/binstruct"

type StatisticsInfo struct {
	TOCIndex      uint32
	TOC           TOC
	Serialization Serialization `bin:"offsetStart:TOC.SerializationOffset"`
}

type TOC struct {
	ValidationType      uint32
	ValidationOffset    uint32
	CompactionType      uint32
	CompactionOffset    uint32
	StatisticsType      uint32
	StatisticsOffset    uint32
	SerializationType   uint32
	SerializationOffset uint32
}

// Serialization is the header listing key and column validation classes.
type Serialization struct {
	MinTimestamp           uint64          `bin:"ReadUvarint"`
	MinLocalDeletionTime   uint64          `bin:"ReadUvarint"`
	MinTTL                 uint64          `bin:"ReadUvarint"`
	PartitionKeyTypeLength uint64          `bin:"ReadUvarint"`
	PartitionKeyType       string          `bin:"len:PartitionKeyTypeLength"`
	ClusteringKeyNumber    uint64          `bin:"ReadUvarint"`
	ClusteringKey          []ClusteringKey `bin:"len:ClusteringKeyNumber"`
	StaticColumnsNumber    uint64          `bin:"ReadUvarint"`
	StaticColumns          []Column        `bin:"len:StaticColumnsNumber"`
	RegularColumnsNumber   uint64          `bin:"ReadUvarint"`
	RegularColumns         []Column        `bin:"len:RegularColumnsNumber"`
}

type ClusteringKey struct {
	TypeLength uint64 `bin:"ReadUvarint"`
	Type       string `bin:"len:TypeLength"`
}

type Column struct {
	NameLength uint64 `bin:"ReadUvarint"`
	Name       string `bin:"len:NameLength"`
	TypeLength uint64 `bin:"ReadUvarint"`
	Type       string `bin:"len:TypeLength"`
}

func (s *Serialization) ReadUvarint(r binstruct.Reader) (uint64, error) {
	return ReadUvarint(r)
}

func (c *ClusteringKey) ReadUvarint(r binstruct.Reader) (uint64, error) {
	return ReadUvarint(r)
}

func (c *Column) ReadUvarint(r binstruct.Reader) (uint64, error) {
	return ReadUvarint(r)
}
