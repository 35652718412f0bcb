package gormstore

import (
	"database/sql"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/callbacks"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// sqliteDialector runs gorm over an already open modernc SQLite connection so
// the store's queries can be exercised without a PostgreSQL server. It covers
// only what Store issues; migrations are done by hand.
type sqliteDialector struct {
	conn *sql.DB
}

func (sqliteDialector) Name() string {
	return "sqlite"
}

func (d sqliteDialector) Initialize(db *gorm.DB) error {
	callbacks.RegisterDefaultCallbacks(db, &callbacks.Config{})
	db.ConnPool = d.conn
	return nil
}

func (sqliteDialector) Migrator(*gorm.DB) gorm.Migrator {
	return nil
}

func (sqliteDialector) DataTypeOf(*schema.Field) string {
	return ""
}

func (sqliteDialector) DefaultValueOf(*schema.Field) clause.Expression {
	return clause.Expr{SQL: "NULL"}
}

func (sqliteDialector) BindVarTo(writer clause.Writer, _ *gorm.Statement, _ interface{}) {
	writer.WriteByte('?')
}

func (sqliteDialector) QuoteTo(writer clause.Writer, str string) {
	for i, part := range strings.Split(str, ".") {
		if i > 0 {
			writer.WriteByte('.')
		}
		writer.WriteByte('"')
		writer.WriteString(strings.ReplaceAll(part, `"`, `""`))
		writer.WriteByte('"')
	}
}

func (sqliteDialector) Explain(sql string, vars ...interface{}) string {
	return logger.ExplainSQL(sql, nil, `'`, vars...)
}
