package conf

// Flags for the metric database backends shared between test cases.
var (
	// MetricDB selects the backend the metric sink writes to.
	MetricDB = NewStringFlag("metric_db", "Backend for metric submission: log, influxdb or cassandra", "log")

	// CassandraAddress represents the cassandra address flag.
	CassandraAddress = NewStringFlag("cassandra_addr", "Address of Cassandra DB endpoint", "127.0.0.1")
	// CassandraPort represents the cassandra port flag.
	CassandraPort = NewIntFlag("cassandra_port", "Port of Cassandra DB endpoint", 9042)
	// CassandraUsername holds the name of the user used for Cassandra authentication.
	CassandraUsername = NewStringFlag("cassandra_username", "The user name which will be presented when connecting to the cluster", "")
	// CassandraPassword holds the password used for Cassandra authentication.
	CassandraPassword = NewStringFlag("cassandra_password", "The password which will be presented when connecting to the cluster", "")
	// CassandraKeyspaceName holds the keyspace metrics are written to.
	CassandraKeyspaceName = NewStringFlag("cassandra_keyspace", "The keyspace metrics are stored in", "srotest")

	// InfluxDBAddress represents the influxdb address flag.
	InfluxDBAddress = NewStringFlag("influxdb_addr", "Address of InfluxDB DB endpoint", "127.0.0.1")
	// InfluxDBPort represents the influxdb port flag.
	InfluxDBPort = NewIntFlag("influxdb_port", "Port of InfluxDB DB endpoint", 8086)
	// InfluxDBUsername holds the name of the user used for InfluxDB authentication.
	InfluxDBUsername = NewStringFlag("influxdb_username", "The user name which will be presented when connecting to the database", "root")
	// InfluxDBPassword holds the password used for InfluxDB authentication.
	InfluxDBPassword = NewStringFlag("influxdb_password", "The password which will be presented when connecting to the database", "root")
	// InfluxDBName holds the database metrics are written to.
	InfluxDBName = NewStringFlag("influxdb_name", "The database metrics are stored in", "srotest")
	// InfluxDBInsecureSkipVerify turns off certificate validation for TLS connections.
	InfluxDBInsecureSkipVerify = NewBoolFlag("influxdb_insecure_skip_verify", "Skip TLS certificate validation when connecting to InfluxDB", false)
)
