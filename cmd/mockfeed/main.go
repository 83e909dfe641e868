// Command mockfeed serves canned CAD and SBDB API responses for local
// development, so neowatch can run end to end without touching JPL.
//
// Usage:
//
//	go run ./cmd/mockfeed -addr :8099
//	CAD_URL=http://localhost:8099/cad.api SBDB_URL=http://localhost:8099/sbdb.api \
//	  go run ./cmd/neowatch --days 7 --dist 10
//
// Approach times are generated inside the requested window, so any window the
// job asks for gets data.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// mockObject is one synthetic close approacher. MOID is served by the SBDB
// endpoint; a zero MOID means SBDB has no orbit solution for the object.
type mockObject struct {
	des      string
	fullname string
	distAU   float64
	vRel     float64
	h        string // empty means no published magnitude
	moidAU   float64
}

var objects = []mockObject{
	{des: "2021 GT2", fullname: "(2021 GT2)", distAU: 0.0190, vRel: 7.30, h: "23.9", moidAU: 0.0161},
	{des: "2010 XC15", fullname: "(2010 XC15)", distAU: 0.0052, vRel: 8.91, h: "21.4", moidAU: 0.0031},
	{des: "433", fullname: "433 Eros (A898 PA)", distAU: 0.1503, vRel: 4.51, h: "10.31", moidAU: 0.148},
	{des: "2024 YR4", fullname: "(2024 YR4)", distAU: 0.0831, vRel: 13.2, h: "", moidAU: 0.0028},
	{des: "99942", fullname: "99942 Apophis (2004 MN4)", distAU: 0.1121, vRel: 5.87, h: "19.7", moidAU: 0.0002},
}

func main() {
	addr := flag.String("addr", ":8099", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/cad.api", getOnly(handleCAD))
	mux.HandleFunc("/sbdb.api", getOnly(handleSBDB))

	log.Printf("mockfeed listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

// getOnly restricts a route to GET (and HEAD) requests, matching the
// behavior of a "GET /path" ServeMux pattern on Go 1.22+.
func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func handleCAD(w http.ResponseWriter, r *http.Request) {
	dateMin, err := time.Parse("2006-01-02", r.URL.Query().Get("date-min"))
	if err != nil {
		http.Error(w, `{"message":"invalid date-min"}`, http.StatusBadRequest)
		return
	}
	dateMax, err := time.Parse("2006-01-02", r.URL.Query().Get("date-max"))
	if err != nil || !dateMax.After(dateMin) {
		http.Error(w, `{"message":"invalid date-max"}`, http.StatusBadRequest)
		return
	}

	// Spread approaches evenly across the window.
	span := dateMax.Sub(dateMin)
	data := make([][]*string, len(objects))
	for i, obj := range objects {
		t := dateMin.Add(span * time.Duration(i+1) / time.Duration(len(objects)+1))
		data[i] = cadRow(obj, t)
	}

	resp := map[string]any{
		"signature": map[string]string{"source": "mockfeed", "version": "1.5"},
		"count":     fmt.Sprintf("%d", len(data)),
		"fields":    []string{"des", "cd", "dist", "dist_min", "dist_max", "v_rel", "v_inf", "h", "fullname"},
		"data":      data,
	}
	writeJSON(w, resp)
}

func cadRow(obj mockObject, t time.Time) []*string {
	str := func(s string) *string { return &s }
	var h *string
	if obj.h != "" {
		h = str(obj.h)
	}
	return []*string{
		str(obj.des),
		str(t.UTC().Format("2006-Jan-02 15:04")),
		str(fmt.Sprintf("%.7f", obj.distAU)),
		str(fmt.Sprintf("%.7f", obj.distAU*0.999)),
		str(fmt.Sprintf("%.7f", obj.distAU*1.001)),
		str(fmt.Sprintf("%.2f", obj.vRel)),
		str(fmt.Sprintf("%.2f", obj.vRel*0.99)),
		h,
		str(obj.fullname),
	}
}

func handleSBDB(w http.ResponseWriter, r *http.Request) {
	sstr := strings.TrimSpace(r.URL.Query().Get("sstr"))
	for _, obj := range objects {
		if obj.des != sstr {
			continue
		}
		if obj.moidAU == 0 {
			break
		}
		writeJSON(w, map[string]any{
			"orbit": map[string]any{
				"elements": map[string]string{"moid": fmt.Sprintf("%.4f", obj.moidAU)},
			},
		})
		return
	}
	// Unknown object: orbit block without elements, like SBDB's sparse answers.
	writeJSON(w, map[string]any{"orbit": map[string]any{}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
