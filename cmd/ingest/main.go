// Command ingest builds the SQLite store from the three dataset files:
// a .geo file of places, a .rel file of pairwise relations and a .od
// file of timestamped flows. Coordinates arrive as a "[lon, lat]" text
// column and are split into real columns; relations without a cost get
// one backfilled from the haversine distance between their endpoints.
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/odlab/odflow-backend/internal/config"
	"github.com/odlab/odflow-backend/internal/database"
	"github.com/odlab/odflow-backend/internal/spatial"
)

const batchSize = 10000

func main() {
	geoPath := flag.String("geo", "", "path to the .geo places file")
	relPath := flag.String("rel", "", "path to the .rel relations file")
	odPath := flag.String("od", "", "path to the .od flows file")
	flag.Parse()

	if *geoPath == "" || *relPath == "" || *odPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	if err := createSchema(cfg); err != nil {
		log.Fatal("Failed to create schema:", err)
	}

	coords, n, err := loadPlaces(cfg.TablePlaces, *geoPath)
	if err != nil {
		log.Fatal("Failed to load places:", err)
	}
	log.Printf("Loaded %d places", n)

	n, err = loadRelations(cfg.TableRelations, *relPath, coords)
	if err != nil {
		log.Fatal("Failed to load relations:", err)
	}
	log.Printf("Loaded %d relations", n)

	n, err = loadFlows(cfg.TableDyna, *odPath)
	if err != nil {
		log.Fatal("Failed to load flows:", err)
	}
	log.Printf("Loaded %d flow records", n)

	if err := createIndexes(cfg); err != nil {
		log.Fatal("Failed to create indexes:", err)
	}
	log.Println("Ingest complete")
}

func createSchema(cfg *config.Config) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			geo_id INTEGER PRIMARY KEY,
			type TEXT,
			longitude REAL,
			latitude REAL,
			name TEXT NOT NULL,
			province TEXT
		)`, cfg.TablePlaces),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			rel_id INTEGER PRIMARY KEY,
			type TEXT,
			origin_id INTEGER NOT NULL,
			destination_id INTEGER NOT NULL,
			cost REAL
		)`, cfg.TableRelations),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			dyna_id INTEGER PRIMARY KEY,
			type TEXT,
			time TEXT NOT NULL,
			origin_id INTEGER NOT NULL,
			destination_id INTEGER NOT NULL,
			flow REAL
		)`, cfg.TableDyna),
	}

	db := database.GetDB()
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func createIndexes(cfg *config.Config) error {
	stmts := []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_dyna_time ON %q(time)`, cfg.TableDyna),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_dyna_origin ON %q(origin_id)`, cfg.TableDyna),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_dyna_destination ON %q(destination_id)`, cfg.TableDyna),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_dyna_type ON %q(type)`, cfg.TableDyna),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_relations_origin ON %q(origin_id)`, cfg.TableRelations),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_relations_destination ON %q(destination_id)`, cfg.TableRelations),
	}

	db := database.GetDB()
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type lonLat struct {
	lon, lat float64
}

// parseCoordinates splits the "[lon, lat]" text form
func parseCoordinates(raw string) (lonLat, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return lonLat{}, fmt.Errorf("bad coordinates %q", raw)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return lonLat{}, fmt.Errorf("bad longitude in %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return lonLat{}, fmt.Errorf("bad latitude in %q", raw)
	}
	return lonLat{lon: lon, lat: lat}, nil
}

type csvFile struct {
	reader *csv.Reader
	col    map[string]int
	close  func() error
}

func openCSV(path string) (*csvFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return &csvFile{reader: r, col: col, close: f.Close}, nil
}

func (c *csvFile) field(record []string, name string) string {
	i, ok := c.col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func loadPlaces(table, path string) (map[int64]lonLat, int, error) {
	f, err := openCSV(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.close()

	coords := make(map[int64]lonLat)
	count := 0
	stmt := fmt.Sprintf(
		`INSERT OR REPLACE INTO %q (geo_id, type, longitude, latitude, name, province) VALUES (?,?,?,?,?,?)`,
		table)

	err = batchInsert(f, stmt, func(record []string) ([]interface{}, error) {
		geoID, err := strconv.ParseInt(f.field(record, "geo_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad geo_id in %v", record)
		}
		ll, err := parseCoordinates(f.field(record, "coordinates"))
		if err != nil {
			return nil, err
		}
		coords[geoID] = ll
		count++
		return []interface{}{
			geoID,
			f.field(record, "type"),
			ll.lon,
			ll.lat,
			f.field(record, "name"),
			f.field(record, "province"),
		}, nil
	})
	return coords, count, err
}

func loadRelations(table, path string, coords map[int64]lonLat) (int, error) {
	f, err := openCSV(path)
	if err != nil {
		return 0, err
	}
	defer f.close()

	count := 0
	stmt := fmt.Sprintf(
		`INSERT OR REPLACE INTO %q (rel_id, type, origin_id, destination_id, cost) VALUES (?,?,?,?,?)`,
		table)

	err = batchInsert(f, stmt, func(record []string) ([]interface{}, error) {
		relID, err := strconv.ParseInt(f.field(record, "rel_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad rel_id in %v", record)
		}
		originID, err := strconv.ParseInt(f.field(record, "origin_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad origin_id in %v", record)
		}
		destinationID, err := strconv.ParseInt(f.field(record, "destination_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad destination_id in %v", record)
		}

		var cost interface{}
		if raw := f.field(record, "cost"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("bad cost in %v", record)
			}
			cost = v
		} else if o, ok := coords[originID]; ok {
			if d, ok := coords[destinationID]; ok {
				cost = spatial.HaversineDistanceKM(o.lat, o.lon, d.lat, d.lon)
			}
		}

		count++
		return []interface{}{
			relID,
			f.field(record, "type"),
			originID,
			destinationID,
			cost,
		}, nil
	})
	return count, err
}

func loadFlows(table, path string) (int, error) {
	f, err := openCSV(path)
	if err != nil {
		return 0, err
	}
	defer f.close()

	count := 0
	stmt := fmt.Sprintf(
		`INSERT OR REPLACE INTO %q (dyna_id, type, time, origin_id, destination_id, flow) VALUES (?,?,?,?,?,?)`,
		table)

	err = batchInsert(f, stmt, func(record []string) ([]interface{}, error) {
		dynaID, err := strconv.ParseInt(f.field(record, "dyna_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad dyna_id in %v", record)
		}
		originID, err := strconv.ParseInt(f.field(record, "origin_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad origin_id in %v", record)
		}
		destinationID, err := strconv.ParseInt(f.field(record, "destination_id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad destination_id in %v", record)
		}

		dynaType := f.field(record, "type")
		if dynaType == "" {
			dynaType = "state"
		}

		var flow interface{}
		if raw := f.field(record, "flow"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("bad flow in %v", record)
			}
			flow = v
		}

		count++
		return []interface{}{
			dynaID,
			dynaType,
			f.field(record, "time"),
			originID,
			destinationID,
			flow,
		}, nil
	})
	return count, err
}

// batchInsert streams CSV records into the table in transactions of
// batchSize rows each
func batchInsert(f *csvFile, stmt string, build func([]string) ([]interface{}, error)) error {
	var batch [][]interface{}

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := database.Transaction(func(tx *sql.Tx) error {
			prepared, err := tx.Prepare(stmt)
			if err != nil {
				return err
			}
			defer prepared.Close()
			for _, args := range batch {
				if _, err := prepared.Exec(args...); err != nil {
					return err
				}
			}
			return nil
		})
		batch = batch[:0]
		return err
	}

	for {
		record, err := f.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		args, err := build(record)
		if err != nil {
			return err
		}
		batch = append(batch, args)

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
