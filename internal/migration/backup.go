package migration

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// backupTable is one (table, column-subset) pair allowed on the copy path.
type backupTable struct {
	name    string
	columns []string
}

// backupTables is the fixed allow-list of tables copied from a backup
// database. calificacion and venta are deliberately excluded: the
// normalization engine reconstructs relationship data and copying it would
// duplicate rows.
var backupTables = []backupTable{
	{name: "categoria", columns: []string{"id", "nombre"}},
	{name: "plataforma", columns: []string{"id", "nombre"}},
	{name: "juego", columns: []string{"id", "nombre", "precio", "categoria_id", "esta_oferta", "estado", "image", "trailer", "precio_oferta"}},
	{name: "juego_plataforma", columns: []string{"juego_id", "plataforma_id"}},
	{name: "noticia", columns: []string{"id", "titulo", "texto", "activo"}},
}

// CopyBackupTables copies all rows of the allow-listed tables from the backup
// database into the live one, one transaction per table.
func CopyBackupTables(src, dst *gorm.DB) error {
	if src == nil || dst == nil {
		return fmt.Errorf("migration: nil connection")
	}
	for _, table := range backupTables {
		if errCopy := copyTable(src, dst, table); errCopy != nil {
			return errCopy
		}
	}
	return nil
}

// copyTable moves one table's rows inside a single transaction.
func copyTable(src, dst *gorm.DB, table backupTable) error {
	var rows []map[string]any
	errFind := src.Table(table.name).
		Select(strings.Join(table.columns, ", ")).
		Find(&rows).Error
	if errFind != nil {
		return fmt.Errorf("migration: read backup table %s: %w", table.name, errFind)
	}
	if len(rows) == 0 {
		return nil
	}

	errTx := dst.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if errInsert := tx.Table(table.name).Create(row).Error; errInsert != nil {
				return fmt.Errorf("migration: insert into %s: %w", table.name, errInsert)
			}
		}
		return nil
	})
	if errTx != nil {
		return errTx
	}
	log.Infof("copied %d rows into %s", len(rows), table.name)
	return nil
}
