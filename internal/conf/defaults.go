// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "PneumoScan-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "pneumoscan.log")
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.workerscript", "assets/worker.js")

	viper.SetDefault("webserver.log.enabled", false)
	viper.SetDefault("webserver.log.path", "logs/web.log")
	viper.SetDefault("webserver.log.maxsize", 1048576)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "pneumoscan.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "pneumoscan")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "pneumoscan")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("registry.autoseed", true)

	viper.SetDefault("inference.mockdelay", 1500*time.Millisecond)
	viper.SetDefault("inference.classification", "Bacterial Pneumonia")
	viper.SetDefault("inference.confidence", 0.87)
}
