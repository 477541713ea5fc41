package database

import (
	"github.com/Masterminds/squirrel"

	"github.com/MrJamesThe3rd/procurement/internal/config"
)

// Builder returns a statement builder using the driver's placeholder style.
func Builder(driver string) squirrel.StatementBuilderType {
	if driver == config.DriverSQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}

	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
