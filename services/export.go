package services

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mimi-order/models"
)

const utf8BOM = "\ufeff"

// ExportColumns is the fixed header row of the CSV export.
var ExportColumns = []string{"주문ID", "날짜", "유형", "이름", "연락처", "테이블", "픽업", "메모", "메뉴", "총합"}

var memoNewlines = strings.NewReplacer("\r\n", " ", "\n", " ")

// ExportFileName is the download name for a day's export.
func ExportFileName(day string) string {
	return fmt.Sprintf("mimi-orders-%s.csv", day)
}

// ItemSummary renders lines as "name×qty(+extra1+extra2)" joined by " / ".
func ItemSummary(lines []models.CartLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		var b strings.Builder
		fmt.Fprintf(&b, "%s×%d", l.Name, l.Qty)
		if len(l.Extras) > 0 {
			names := make([]string, len(l.Extras))
			for j, e := range l.Extras {
				names[j] = e.Name
			}
			b.WriteString("(+" + strings.Join(names, "+") + ")")
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, " / ")
}

// ExportCSV writes orders as a BOM-prefixed CSV with every field quoted.
func ExportCSV(w io.Writer, orders []models.Order) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	writeRow(bw, ExportColumns)
	for _, o := range orders {
		bw.WriteByte('\n')
		writeRow(bw, []string{
			o.ID,
			o.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
			o.Type.Label(),
			o.Name,
			o.Phone,
			o.TableNo,
			o.PickupAt,
			memoNewlines.Replace(o.Memo),
			ItemSummary(o.Items),
			strconv.FormatInt(o.Total, 10),
		})
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
}
