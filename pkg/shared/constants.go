// pkg/shared/constants.go

package shared

const (
	// AppID names the config directory and env prefix.
	AppID = "fslogger"
	// EnvPrefix is the viper environment prefix (FSLOGGER_LOGGER2_PATH, ...).
	EnvPrefix = "FSLOGGER"

	// PluginName is the registry key the filesystem logger answers to.
	PluginName = "filesystem2"

	DefaultLogDir     = "/var/log/osquery"
	DefaultBinaryName = "osqueryd"
	DefaultLogMode    = "0640"

	ResultsSuffix   = ".results.log"
	SnapshotsSuffix = ".snapshots.log"
)

const (
	// Permission modes (in octal)
	DirPermStandard  = 0755
	RuntimeFilePerms = 0640
)

// ResultsFilename returns the differential log name for binary.
func ResultsFilename(binary string) string {
	return binary + ResultsSuffix
}

// SnapshotsFilename returns the snapshot log name for binary.
func SnapshotsFilename(binary string) string {
	return binary + SnapshotsSuffix
}
