package handlers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"medlab-backend/internal/models"
	"medlab-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// TestStat summarises every recorded value of one test.
type TestStat struct {
	TestName     string  `json:"test_name"`
	Unit         string  `json:"unit"`
	Count        int     `json:"count"`
	NumericCount int     `json:"numeric_count"`
	Average      float64 `json:"average"`
	StdDev       float64 `json:"std_dev"`
	Normal       int     `json:"normal"`
	Abnormal     int     `json:"abnormal"`
}

// TestStats aggregates test entries by name, optionally for one category.
func (h *Handler) TestStats(c *gin.Context) {
	query := h.conn(c).Model(&models.TestResult{})
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}

	var results []models.TestResult
	if err := query.Find(&results).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Failed to fetch test results", Err: err})
		return
	}

	c.JSON(http.StatusOK, summarizeTests(results))
}

func summarizeTests(results []models.TestResult) []TestStat {
	type acc struct {
		stat   TestStat
		values []*float64
	}
	byName := make(map[string]*acc)

	for _, r := range results {
		for _, entry := range r.Tests {
			name := strings.TrimSpace(stringify(entry["testName"]))
			if name == "" {
				continue
			}
			a, ok := byName[name]
			if !ok {
				a = &acc{stat: TestStat{TestName: name}}
				byName[name] = a
			}
			if a.stat.Unit == "" {
				a.stat.Unit = stringify(entry["unit"])
			}
			a.stat.Count++

			value := utils.ParseNumber(entry["value"])
			a.values = append(a.values, value)
			if value == nil {
				continue
			}
			a.stat.NumericCount++
			if rng, ok := utils.ParseRange(stringify(entry["normalRange"])); ok {
				if rng.Contains(*value) {
					a.stat.Normal++
				} else {
					a.stat.Abnormal++
				}
			}
		}
	}

	out := make([]TestStat, 0, len(byName))
	for _, a := range byName {
		a.stat.Average, a.stat.StdDev = utils.CalculateStats(a.values)
		out = append(out, a.stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestName < out[j].TestName })
	return out
}

// Dashboard returns the headline counters shown on the lab dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	db := h.conn(c)

	var patients, tests, today int64
	if err := db.Model(&models.Patient{}).Count(&patients).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Failed to load dashboard", Err: err})
		return
	}
	if err := db.Model(&models.TestResult{}).Count(&tests).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Failed to load dashboard", Err: err})
		return
	}
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	if err := db.Model(&models.TestResult{}).Where("timestamp >= ?", midnight).Count(&today).Error; err != nil {
		respondError(c, h.log, &PersistenceError{Message: "Failed to load dashboard", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_patients": patients,
		"total_tests":    tests,
		"tests_today":    today,
	})
}
