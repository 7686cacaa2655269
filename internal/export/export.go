package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Rana718/Seedling/internal/database"
)

// Data is the JSON export document.
type Data struct {
	Timestamp string                           `json:"timestamp"`
	Version   string                           `json:"version"`
	Tables    map[string]*database.QueryResult `json:"tables"`
	Comment   string                           `json:"comment,omitempty"`
}

// PerformExport dumps every table except those in skip to exportPath and
// returns the written file or directory.
func PerformExport(ctx context.Context, store database.Store, exportPath, format string, skip []string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tables, err := store.ListTables(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get table names: %w", err)
	}

	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}
	var validTables []string
	for _, tableName := range tables {
		if !skipped[tableName] {
			validTables = append(validTables, tableName)
		}
	}
	if len(validTables) == 0 {
		return "", nil
	}

	exportData := Data{
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Version:   "1.0",
		Tables:    make(map[string]*database.QueryResult, len(validTables)),
		Comment:   "Seedling export",
	}

	type tableResult struct {
		name string
		data *database.QueryResult
		err  error
	}

	results := make(chan tableResult, len(validTables))
	var wg sync.WaitGroup

	d := store.Dialect()
	for _, tableName := range validTables {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			data, err := store.ExecuteQuery(ctx, "SELECT * FROM "+d.QuoteIdent(name))
			results <- tableResult{name, data, err}
		}(tableName)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		if result.err != nil {
			logger.Warn("failed to read table", zap.String("table", result.name), zap.Error(result.err))
			continue
		}
		exportData.Tables[result.name] = result.data
	}

	switch format {
	case "csv":
		return exportToCSV(exportData, exportPath)
	case "json", "":
		return exportToJSON(exportData, exportPath)
	default:
		return "", fmt.Errorf("unsupported export format: %s (use json or csv)", format)
	}
}

func exportToJSON(data Data, exportPath string) (string, error) {
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(exportPath, fmt.Sprintf("export_%s.json", timestamp))

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// exportToCSV writes one file per table with the columns in table order.
func exportToCSV(data Data, exportPath string) (string, error) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	dirPath := filepath.Join(exportPath, fmt.Sprintf("export_%s_csv", timestamp))

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	names := make([]string, 0, len(data.Tables))
	for name := range data.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, tableName := range names {
		if err := writeCSV(filepath.Join(dirPath, tableName+".csv"), data.Tables[tableName]); err != nil {
			return "", fmt.Errorf("failed to write CSV for %s: %w", tableName, err)
		}
	}

	return dirPath, nil
}

func writeCSV(path string, result *database.QueryResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(result.Columns); err != nil {
		return err
	}
	for _, row := range result.Rows {
		values := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			if v := row[col]; v != nil {
				values[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
