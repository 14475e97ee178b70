package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"cassmapper/internal/cassandra"
	"cassmapper/pkg/classifier"
	"cassmapper/pkg/marshal"
	"cassmapper/pkg/sstable"
)

var errMismatch = errors.New("schema mismatch")

func addCommands(parser *flags.Parser) {
	commands := []struct {
		name, short, long string
		data              any
	}{
		{"resolve", "Resolve host types to validation classes", "Print the validation class of each host type.", &resolveCommand{}},
		{"value", "Resolve a parameterized value type", "Print the canonical descriptor of a host type and its element types.", &valueCommand{}},
		{"parse", "Parse validation class descriptors", "Print the canonical form, CQL type and driver type of each descriptor.", &parseCommand{}},
		{"strategies", "List replication strategies", "List the recognized replication strategy classes.", &strategiesCommand{}},
		{"validators", "List validators and comparators", "List the class names usable as column validators and comparators.", &validatorsCommand{}},
		{"sstable", "Show the schema of an sstable", "Decode a Statistics.db file and print its key and column types.", &sstableCommand{}},
		{"keyspace", "Create a keyspace", "Create a keyspace with one of the recognized replication strategies.", &keyspaceCommand{}},
		{"table", "Create a table", "Create a table whose column types are derived from host types.", &tableCommand{}},
		{"check", "Check a table", "Compare the live column types of a table with host type definitions.", &checkCommand{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			panic(err)
		}
	}
}

type resolveCommand struct {
	CQL3 bool `long:"cql3" description:"resolve with CQL3 rules"`
	Args struct {
		Hosts []string `positional-arg-name:"host" required:"1"`
	} `positional-args:"yes"`
}

func (c *resolveCommand) Execute(_ []string) error {
	for _, h := range c.Args.Hosts {
		t := classifier.ValidationClass(classifier.HostType(h), c.CQL3)
		fmt.Printf("%s\t%s\t%s\n", h, t.Name(), t.Class())
	}
	return nil
}

type valueCommand struct {
	Type  string   `short:"t" long:"type" description:"host type" required:"true"`
	Elems []string `short:"e" long:"elem" description:"element host type, repeat for map key and value"`
	CQL3  bool     `long:"cql3" description:"resolve with CQL3 rules"`
}

func (c *valueCommand) Execute(_ []string) error {
	elems := make([]classifier.HostType, len(c.Elems))
	for i, e := range c.Elems {
		elems[i] = classifier.HostType(e)
	}
	name, err := classifier.ValueTypeName(classifier.HostType(c.Type), elems, c.CQL3)
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}

type parseCommand struct {
	Proto int `long:"proto" description:"native protocol version" default:"4"`
	Args  struct {
		Descriptors []string `positional-arg-name:"descriptor" required:"1"`
	} `positional-args:"yes"`
}

func (c *parseCommand) Execute(_ []string) error {
	for _, d := range c.Args.Descriptors {
		t, err := marshal.Parse(d)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n  cql:      %s\n  driver:   %s\n  protocol: %v\n  size:     %d\n",
			t, t.CQL(), t.TypeInfo(byte(c.Proto)).Type(), t.DataType(), t.Size())
	}
	return nil
}

type strategiesCommand struct{}

func (c *strategiesCommand) Execute(_ []string) error {
	for _, s := range classifier.ReplicationStrategies() {
		fmt.Println(s)
	}
	return nil
}

type validatorsCommand struct{}

func (c *validatorsCommand) Execute(_ []string) error {
	for _, v := range classifier.ValidatorsAndComparators() {
		fmt.Println(v)
	}
	return nil
}

type sstableCommand struct {
	StatisticsFile string `short:"f" long:"statistics" description:"sstable Statistics.db file" required:"true"`
}

func (c *sstableCommand) Execute(_ []string) error {
	sst := sstable.New(c.StatisticsFile, log)
	if err := sst.ReadStatistics(); err != nil {
		return fmt.Errorf("read statistics: %w", err)
	}

	fmt.Printf("partition-key\t%s\n", sst.PartitionKey.CQL())
	for i, t := range sst.Clustering {
		fmt.Printf("clustering[%d]\t%s\n", i, t.CQL())
	}
	for _, e := range sst.Schema {
		kind := "regular"
		if e.Static {
			kind = "static"
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", e.Name, kind, e.Type.CQL(), e.Class)
	}
	return nil
}

type ClusterOptions struct {
	Seeds    []string `short:"s" long:"seeds" env:"CASSMAPPER_SEEDS" env-delim:"," description:"cassandra seeds"`
	KS       string   `short:"k" long:"keyspace" env:"CASSMAPPER_KEYSPACE" description:"cassandra keyspace" required:"true"`
	DC       string   `short:"r" long:"datacenter" env:"CASSMAPPER_DATACENTER" description:"cassandra datacenter"`
	Username string   `short:"u" long:"username" env:"CASSMAPPER_USERNAME" description:"cassandra username" default:"cassandra"`
	Password string   `short:"p" long:"password" env:"CASSMAPPER_PASSWORD" description:"cassandra password" default:"cassandra"`
	Conns    int      `long:"connections" description:"number of connections by host" default:"2"`
	Retries  int      `long:"retries" description:"number of retry per query" default:"5"`
	Timeout  int      `long:"timeout" description:"timeout of a query in ms" default:"5000"`
	Limit    int      `long:"ratelimit" description:"schema queries per second, 0 for unlimited" default:"100"`
	Compress bool     `long:"compress" description:"snappy compression"`
	CQL3     bool     `long:"cql3" description:"resolve with CQL3 rules"`
}

func (o *ClusterOptions) manager() *cassandra.SchemaManager {
	sm := cassandra.New(log)
	sm.Seeds = o.Seeds
	sm.KS = o.KS
	sm.DC = o.DC
	sm.Username = o.Username
	sm.Password = o.Password
	sm.Conns = o.Conns
	sm.Retries = o.Retries
	sm.Timeout = o.Timeout
	sm.Limit = o.Limit
	sm.Compress = o.Compress
	sm.CQL3 = o.CQL3
	return sm
}

func (o *ClusterOptions) connect() (*cassandra.SchemaManager, error) {
	if len(o.Seeds) == 0 {
		return nil, errors.New("no seeds: set --seeds or CASSMAPPER_SEEDS")
	}
	sm := o.manager()
	if err := sm.Connect(); err != nil {
		return nil, fmt.Errorf("cassandra connect: %w", err)
	}
	return sm, nil
}

type keyspaceCommand struct {
	ClusterOptions
	Strategy string            `long:"strategy" description:"replication strategy" default:"SimpleStrategy"`
	Options  map[string]string `short:"o" long:"option" description:"replication option as key:value"`
	Print    bool              `long:"print" description:"print the statement instead of running it"`
}

func (c *keyspaceCommand) Execute(_ []string) error {
	if c.Print {
		stmt, err := cassandra.KeyspaceStatement(c.KS, c.Strategy, c.Options)
		if err != nil {
			return err
		}
		fmt.Println(stmt)
		return nil
	}

	sm, err := c.connect()
	if err != nil {
		return err
	}
	defer sm.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := sm.CreateKeyspace(ctx, c.Strategy, c.Options); err != nil {
		return err
	}
	log.Info("keyspace ready", zap.String("keyspace", c.KS))
	return nil
}

type TableOptions struct {
	Table   string   `short:"t" long:"table" description:"cassandra table" required:"true"`
	Columns []string `short:"c" long:"column" description:"column as name:host[:elem,...]" required:"true"`
}

func (o *TableOptions) fields() ([]cassandra.Field, error) {
	fields := make([]cassandra.Field, 0, len(o.Columns))
	for _, c := range o.Columns {
		f, err := cassandra.ParseField(c)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

type tableCommand struct {
	ClusterOptions
	TableOptions
	Key   []string `long:"key" description:"primary key column, partition key first" required:"true"`
	Print bool     `long:"print" description:"print the statement instead of running it"`
}

func (c *tableCommand) Execute(_ []string) error {
	fields, err := c.fields()
	if err != nil {
		return err
	}

	if c.Print {
		stmt, err := cassandra.TableStatement(c.KS, c.Table, fields, c.Key, c.CQL3)
		if err != nil {
			return err
		}
		fmt.Println(stmt)
		return nil
	}

	sm, err := c.connect()
	if err != nil {
		return err
	}
	defer sm.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := sm.CreateTable(ctx, c.Table, fields, c.Key); err != nil {
		return err
	}
	log.Info("table ready", zap.String("table", c.KS+"."+c.Table))
	return nil
}

type checkCommand struct {
	ClusterOptions
	TableOptions
}

func (c *checkCommand) Execute(_ []string) error {
	fields, err := c.fields()
	if err != nil {
		return err
	}

	sm, err := c.connect()
	if err != nil {
		return err
	}
	defer sm.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	mismatches, err := sm.Check(ctx, c.Table, fields)
	if err != nil {
		return err
	}
	if len(mismatches) == 0 {
		fmt.Printf("%s.%s: ok\n", c.KS, c.Table)
		return nil
	}

	lines := make([]string, len(mismatches))
	for i, m := range mismatches {
		lines[i] = m.String()
	}
	fmt.Println(strings.Join(lines, "\n"))
	return fmt.Errorf("%w: %d column(s)", errMismatch, sm.Mismatches.Load())
}
