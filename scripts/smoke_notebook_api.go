package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// envelope mirrors the API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type notebook struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type step struct {
	StepId     int64     `json:"step_id"`
	OrderId    int       `json:"order_id"`
	ModifiedAt time.Time `json:"modified_at"`
}

var (
	baseURL = "http://localhost:3000/api"
	client  = &http.Client{Timeout: 10 * time.Second}
	failed  = 0
)

func sendRequest(method, path string, body interface{}) (int, *envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode %s: %w", raw, err)
	}
	return resp.StatusCode, &env, nil
}

func must(method, path string, body interface{}, wantStatus int, out interface{}) *envelope {
	status, env, err := sendRequest(method, path, body)
	if err != nil {
		color.Red("  ✗ %s %s: %v", method, path, err)
		os.Exit(1)
	}
	if status != wantStatus {
		failed++
		color.Red("  ✗ %s %s: got %d want %d (%s)", method, path, status, wantStatus, env.Message)
		return env
	}
	color.Green("  ✓ %s %s -> %d %s", method, path, status, env.Message)
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			color.Red("  ✗ decode data: %v", err)
			os.Exit(1)
		}
	}
	return env
}

func check(ok bool, format string, args ...interface{}) {
	if ok {
		color.Green("  ✓ "+format, args...)
		return
	}
	failed++
	color.Red("  ✗ "+format, args...)
}

func createNotebook(name string) notebook {
	var nb notebook
	must(http.MethodPost, "/notebooks", map[string]string{"name": name}, http.StatusCreated, &nb)
	return nb
}

func addStep(notebookId string, orderId, wantStatus int) step {
	var s step
	must(http.MethodPost, "/notebooks/"+notebookId+"/steps", map[string]int{"order_id": orderId}, wantStatus, &s)
	return s
}

func reorder(notebookId string, pairs map[int64]int, wantStatus int) []step {
	items := make([]map[string]interface{}, 0, len(pairs))
	for id, order := range pairs {
		items = append(items, map[string]interface{}{"step_id": id, "order_id": order})
	}
	var steps []step
	must(http.MethodPut, "/notebooks/"+notebookId+"/steps/order", map[string]interface{}{"steps": items}, wantStatus, &steps)
	return steps
}

func main() {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		baseURL = url
	}
	color.Cyan("Notebook API smoke run against %s\n", baseURL)

	color.Yellow("\n[A] Duplicate order id")
	n1 := createNotebook("N1")
	addStep(n1.Id, 1, http.StatusCreated)
	addStep(n1.Id, 1, http.StatusBadRequest)

	color.Yellow("\n[B] Capacity")
	full := createNotebook("full")
	for order := 0; order < 100; order++ {
		_, env, err := sendRequest(http.MethodPost, "/notebooks/"+full.Id+"/steps", map[string]int{"order_id": order})
		if err != nil || !env.Success {
			color.Red("  ✗ add step %d failed", order)
			os.Exit(1)
		}
	}
	color.Green("  ✓ added 100 steps")
	addStep(full.Id, 100, http.StatusBadRequest)

	color.Yellow("\n[C] Rotation")
	rot := createNotebook("rotation")
	a := addStep(rot.Id, 1, http.StatusCreated)
	b := addStep(rot.Id, 2, http.StatusCreated)
	c := addStep(rot.Id, 3, http.StatusCreated)
	steps := reorder(rot.Id, map[int64]int{a.StepId: 2, b.StepId: 3, c.StepId: 1}, http.StatusOK)
	byId := map[int64]step{}
	for _, s := range steps {
		byId[s.StepId] = s
	}
	check(byId[a.StepId].OrderId == 2 && byId[b.StepId].OrderId == 3 && byId[c.StepId].OrderId == 1,
		"orders rotated")
	check(byId[a.StepId].ModifiedAt.After(a.ModifiedAt), "modified_at advanced")

	color.Yellow("\n[D] Missing steps")
	miss := createNotebook("missing")
	ma := addStep(miss.Id, 1, http.StatusCreated)
	addStep(miss.Id, 2, http.StatusCreated)
	reorder(miss.Id, map[int64]int{ma.StepId: 2}, http.StatusBadRequest)

	color.Yellow("\n[E] Lookups")
	must(http.MethodGet, "/notebooks/"+n1.Id, nil, http.StatusOK, nil)
	must(http.MethodGet, "/notebooks/does-not-exist", nil, http.StatusNotFound, nil)
	must(http.MethodGet, "/notebooks", nil, http.StatusOK, nil)

	if failed > 0 {
		color.Red("\n%d check(s) failed", failed)
		os.Exit(1)
	}
	color.Cyan("\nAll checks passed")
}
