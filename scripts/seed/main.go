// Command seed loads a small demo dataset into a running instance of the
// API: two departments, a faculty member, two courses, three students and
// their enrollments. Intended for local development against a fresh
// database.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

type payload map[string]interface{}

type client struct {
	base string
	http *http.Client
}

func (c *client) post(path string, body payload) (map[string]interface{}, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	}
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("POST %s: decode response: %w", path, err)
	}
	return envelope.Data, nil
}

func (c *client) mustPost(path string, body payload) map[string]interface{} {
	data, err := c.post(path, body)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	return data
}

func id(data map[string]interface{}) int64 {
	v, ok := data["id"].(float64)
	if !ok {
		log.Fatalf("seed failed: response carries no id: %v", data)
	}
	return int64(v)
}

func main() {
	base := flag.String("base", "http://localhost:8080/api/v1", "API base URL")
	flag.Parse()

	c := &client{base: *base, http: &http.Client{Timeout: 10 * time.Second}}

	cs := c.mustPost("/departments", payload{"name": "Computer Science", "code": "CS"})
	math := c.mustPost("/departments", payload{"name": "Mathematics", "code": "MATH"})

	hopper := c.mustPost("/faculty", payload{
		"first_name": "Grace", "last_name": "Hopper", "email": "grace.hopper@example.edu",
		"designation": "Professor", "department_id": id(cs),
		"join_date": "2018-08-01T00:00:00Z",
	})

	intro := c.mustPost("/courses", payload{
		"code": "CS101", "name": "Intro to Computing", "credits": 4,
		"department_id": id(cs), "faculty_id": id(hopper),
	})
	calc := c.mustPost("/courses", payload{
		"code": "MATH201", "name": "Calculus II", "credits": 3,
		"department_id": id(math),
	})

	students := []payload{
		{"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.edu"},
		{"first_name": "Alan", "last_name": "Turing", "email": "alan@example.edu"},
		{"first_name": "Katherine", "last_name": "Johnson", "email": "katherine@example.edu"},
	}
	var studentIDs []int64
	for _, s := range students {
		s["enrollment_date"] = "2025-08-25T00:00:00Z"
		s["department_id"] = id(cs)
		studentIDs = append(studentIDs, id(c.mustPost("/students", s)))
	}

	c.mustPost("/enrollments/bulk", payload{
		"student_ids": studentIDs, "course_id": id(intro),
		"semester": "Fall", "year": 2025,
	})
	c.mustPost("/enrollments", payload{
		"student_id": studentIDs[0], "course_id": id(calc),
		"semester": "Fall", "year": 2025,
	})

	log.Printf("seeded %d departments, 1 faculty member, 2 courses, %d students", 2, len(studentIDs))
}
