package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// DatabaseFile is the path to the SQLite catalog database
	DatabaseFile string
	// DownloadCovers controls whether cover thumbnails are downloaded on add
	DownloadCovers bool
	// CoversDir is the directory cover thumbnails are saved into
	CoversDir string
	// ExportDir is the directory markdown notes are exported into
	ExportDir string
	// GoogleBooksAPIKey is the optional API key for Google Books
	GoogleBooksAPIKey string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("database.file", "./tome.db")
	viper.SetDefault("covers.download", true)
	viper.SetDefault("covers.output", "./covers/")
	viper.SetDefault("export.output", "./markdown/")

	// Get values from viper
	DatabaseFile = viper.GetString("database.file")
	DownloadCovers = viper.GetBool("covers.download")
	CoversDir = viper.GetString("covers.output")
	ExportDir = viper.GetString("export.output")
	GoogleBooksAPIKey = viper.GetString("GoogleBooksAPIKey")
}

// SetDatabaseFile sets the catalog database path
func SetDatabaseFile(path string) {
	DatabaseFile = path
}

// SetDownloadCovers sets the cover download flag
func SetDownloadCovers(download bool) {
	DownloadCovers = download
}
