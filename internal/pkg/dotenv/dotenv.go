package dotenv

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const defaultFile = ".env"

// Load подхватывает .env из рабочей директории, если он есть. Уже выставленные
// переменные окружения файл не перетирает. Флаг -port перекрывает portEnv.
func Load(portEnv string) error {
	return load(os.Args[1:], portEnv, defaultFile)
}

func load(args []string, portEnv string, files ...string) error {
	for _, file := range files {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", file, err)
		}
	}

	flags := flag.NewFlagSet("shipping", flag.ContinueOnError)
	port := flags.String("port", "", "listen port, overrides "+portEnv)
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *port != "" {
		if err := os.Setenv(portEnv, *port); err != nil {
			return fmt.Errorf("set %s: %w", portEnv, err)
		}
	}
	return nil
}
