// seed_catalog genera un script SQL idempotente para poblar el maestro (almacenes, productos
// y clientes) a partir de una exportación CSV en ISO-8859-1 separada por ';'.
//
// Uso: go run ./cmd/seed_catalog [-o salida.sql] [catalogo.csv]
// Por defecto lee catalogo.csv y escribe en la salida estándar.
//
// Formato (la primera columna indica el tipo de registro; líneas con # se ignoran):
//
//	almacen;ID;nombre;UEB|CASA_COMPRA|OTRO;id_ueb_padre;municipio;telefono
//	producto;ID;codigo;nombre;um;compra_mn;compra_mlc;venta_mn;venta_mlc
//	cliente;ID;codigo;nombre;organismo
package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type warehouseRow struct {
	id, name, kind, parent, municipality, phone string
}

type productRow struct {
	id, code, name, unit string
	prices               [4]decimal.Decimal
}

type clientRow struct {
	id, code, name, organism string
}

type catalog struct {
	warehouses []warehouseRow
	products   []productRow
	clients    []clientRow
}

func main() {
	out := flag.String("o", "", "archivo de salida (por defecto stdout)")
	flag.Parse()
	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, err := parseCatalog(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		of, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear salida: %v\n", err)
			os.Exit(1)
		}
		defer of.Close()
		w = of
	}
	bw := bufio.NewWriter(w)
	writeSQL(bw, cat)
	if err := bw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d almacenes, %d productos, %d clientes\n",
		len(cat.warehouses), len(cat.products), len(cat.clients))
}

// parseCatalog lee el CSV ya decodificado a UTF-8. Los errores indican la línea del archivo.
func parseCatalog(r io.Reader) (*catalog, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	cat := &catalog{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if len(rec) == 0 || rec[0] == "" {
			continue
		}
		switch strings.ToLower(rec[0]) {
		case "almacen":
			if len(rec) < 4 {
				return nil, fmt.Errorf("línea %d: almacén requiere id, nombre y tipo", line)
			}
			row := warehouseRow{id: rec[1], name: rec[2], kind: strings.ToUpper(rec[3])}
			row.parent, row.municipality, row.phone = field(rec, 4), field(rec, 5), field(rec, 6)
			if !entity.WarehouseKind(row.kind).Valid() {
				return nil, fmt.Errorf("línea %d: tipo de almacén desconocido %q", line, rec[3])
			}
			if row.kind == string(entity.WarehouseKindUEB) && row.parent != "" {
				return nil, fmt.Errorf("línea %d: una UEB no tiene padre", line)
			}
			cat.warehouses = append(cat.warehouses, row)
		case "producto":
			if len(rec) < 5 {
				return nil, fmt.Errorf("línea %d: producto requiere id, código, nombre y um", line)
			}
			row := productRow{id: rec[1], code: rec[2], name: rec[3], unit: rec[4]}
			for i := range row.prices {
				raw := strings.ReplaceAll(field(rec, 5+i), ",", ".")
				if raw == "" {
					continue
				}
				d, err := decimal.NewFromString(raw)
				if err != nil || d.IsNegative() {
					return nil, fmt.Errorf("línea %d: precio inválido %q", line, field(rec, 5+i))
				}
				row.prices[i] = d
			}
			cat.products = append(cat.products, row)
		case "cliente":
			if len(rec) < 4 {
				return nil, fmt.Errorf("línea %d: cliente requiere id, código y nombre", line)
			}
			cat.clients = append(cat.clients, clientRow{id: rec[1], code: rec[2], name: rec[3], organism: field(rec, 4)})
		default:
			return nil, fmt.Errorf("línea %d: tipo de registro desconocido %q", line, rec[0])
		}
	}
	sortWarehouses(cat.warehouses)
	return cat, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// sortWarehouses deja las UEB antes que sus dependientes (la FK parent_id lo exige).
func sortWarehouses(ws []warehouseRow) {
	sort.SliceStable(ws, func(i, j int) bool {
		return ws[i].parent == "" && ws[j].parent != ""
	})
}

func writeSQL(w io.Writer, cat *catalog) {
	fmt.Fprintln(w, "-- Generado por cmd/seed_catalog. Idempotente: ON CONFLICT DO NOTHING.")
	fmt.Fprintln(w, "BEGIN;")
	for _, r := range cat.warehouses {
		fmt.Fprintf(w, "INSERT INTO warehouses (id, name, phone, kind, parent_id, municipality) VALUES (%s, %s, %s, %s, %s, %s) ON CONFLICT (id) DO NOTHING;\n",
			quote(r.id), quote(r.name), quote(r.phone), quote(r.kind), quoteOrNull(r.parent), quote(r.municipality))
	}
	for _, r := range cat.products {
		fmt.Fprintf(w, "INSERT INTO products (id, code, name, unit_measure, purchase_price_mn, purchase_price_mlc, sale_price_mn, sale_price_mlc) VALUES (%s, %s, %s, %s, %s, %s, %s, %s) ON CONFLICT DO NOTHING;\n",
			quote(r.id), quote(r.code), quote(r.name), quote(r.unit),
			r.prices[0].String(), r.prices[1].String(), r.prices[2].String(), r.prices[3].String())
	}
	for _, r := range cat.clients {
		fmt.Fprintf(w, "INSERT INTO clients (id, code, name, organism) VALUES (%s, %s, %s, %s) ON CONFLICT (id) DO NOTHING;\n",
			quote(r.id), quote(r.code), quote(r.name), quote(r.organism))
	}
	fmt.Fprintln(w, "COMMIT;")
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}
