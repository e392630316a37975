package sinks

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/optinet/srotest/pkg/conf"
)

// CassandraConfig encodes the settings for connecting to the database.
type CassandraConfig struct {
	Address           string
	Port              int
	Username          string
	Password          string
	KeyspaceName      string
	ConnectionTimeout time.Duration
}

// DefaultCassandraConfig applies the Cassandra settings from the command line
// flags and environment variables.
func DefaultCassandraConfig() CassandraConfig {
	return CassandraConfig{
		Address:           conf.CassandraAddress.Value(),
		Port:              conf.CassandraPort.Value(),
		Username:          conf.CassandraUsername.Value(),
		Password:          conf.CassandraPassword.Value(),
		KeyspaceName:      conf.CassandraKeyspaceName.Value(),
		ConnectionTimeout: 10 * time.Second,
	}
}

// Cassandra is a sink which keeps the Cassandra session alive and inserts one
// row per submitted metric, keyed by the run id.
type Cassandra struct {
	runID   string
	config  CassandraConfig
	session *gocql.Session
}

// NewCassandra returns a Cassandra sink from a run id and configuration.
func NewCassandra(runID string, config CassandraConfig) (*Cassandra, error) {
	sink := &Cassandra{
		runID:  runID,
		config: config,
	}
	if err := connect(sink); err != nil {
		return nil, errors.Wrapf(err, "cannot connect to cassandra for run %s", runID)
	}

	return sink, nil
}

func getClusterConfig(config CassandraConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(config.Address)
	cluster.Port = config.Port
	cluster.ProtoVersion = 4
	cluster.ConnectTimeout = config.ConnectionTimeout

	if config.Username != "" && config.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	return cluster
}

// connect creates the session and the schema. Called once per sink.
func connect(s *Cassandra) error {
	cluster := getClusterConfig(s.config)

	session, err := cluster.CreateSession()
	if err != nil {
		return errors.Wrap(err, "cannot create session")
	}

	query := fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': 1};",
		s.config.KeyspaceName)
	if err = session.Query(query).Exec(); err != nil {
		session.Close()
		return errors.Wrap(err, "cannot create keyspace")
	}
	session.Close()

	cluster.Keyspace = s.config.KeyspaceName
	s.session, err = cluster.CreateSession()
	if err != nil {
		return errors.Wrap(err, "cannot create keyspace session")
	}

	createTable := "CREATE TABLE IF NOT EXISTS metrics (run_id text, time timeuuid, description text, type text, unit text, value double, PRIMARY KEY ((run_id), time)) WITH CLUSTERING ORDER BY (time DESC);"
	if err = s.session.Query(createTable).Exec(); err != nil {
		return errors.Wrap(err, "cannot create metrics table")
	}

	return nil
}

// Log implements metrics.Sink. Failures are logged and swallowed.
func (s *Cassandra) Log(description string, metricType string, unit string, value float64) {
	err := s.session.Query(
		"INSERT INTO metrics (run_id, time, description, type, unit, value) VALUES (?, ?, ?, ?, ?, ?)",
		s.runID, gocql.TimeUUID(), description, metricType, unit, value).Exec()
	if err != nil {
		log.Warnf("cassandra sink: publishing %q failed: %v", description, err)
	}
}

// Close releases the session.
func (s *Cassandra) Close() {
	s.session.Close()
}
