package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/evotimetabling/pkg/genetic"
	"github.com/limaJavier/evotimetabling/pkg/model"

	"github.com/samber/lo"
)

const (
	executablePath         = "../../bin/evotimetable"
	testDirectory          = "../../test/input/"
	KB             float32 = 1024
)

type ResultType int

const (
	verified ResultType = iota
	unverified
)

var (
	resultTypes = map[ResultType]string{
		verified:   "verified",
		unverified: "unverified",
	}
	seeds = []uint64{1, 2, 3}
)

type TestMetadata struct {
	Name        string
	Departments int
	Courses     int
	Professors  int
	Rooms       int
	LabRooms    int
	Divisions   int
	Sessions    uint64 // Lectures and labs required per week
}

type BenchmarkResult struct {
	Selection     string
	Seed          uint64
	Test          TestMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

func main() {
	tests := getTests()
	selections := genetic.SelectionStrategies()
	results := make([]BenchmarkResult, 0, len(tests)*len(selections)*len(seeds))

	for _, test := range tests {
		for _, selection := range selections {
			for _, seed := range seeds {
				fmt.Printf("Benchmarking test \"%v\" with selection \"%v\" and seed \"%v\"\n", test.Name, selection, seed)

				duration, maxMemory, cpuPercentage, result := measure(selection, seed, test.Name)

				results = append(results, BenchmarkResult{
					Selection:     selection,
					Seed:          seed,
					Test:          test,
					Duration:      duration,
					Memory:        maxMemory,
					CpuPercentage: cpuPercentage,
					Result:        result,
				})
			}
		}
	}

	toCsv(results)
}

func getTests() []TestMetadata {
	testFiles, err := os.ReadDir(testDirectory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0, len(testFiles))
	for _, file := range testFiles {
		filename := filepath.Join(testDirectory, file.Name())
		input, err := model.InputFromFile(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		tests = append(tests, TestMetadata{
			Name:        filename,
			Departments: len(input.Departments),
			Courses:     len(input.Courses),
			Professors:  len(input.Professors),
			Rooms:       len(input.LectureRooms),
			LabRooms:    len(input.LabRooms),
			Divisions:   len(input.Divisions),
			Sessions:    requiredSessions(input),
		})
	}

	return tests
}

func requiredSessions(input model.ModelInput) uint64 {
	batches := lo.SumBy(input.Divisions, func(division model.Division) uint64 { return division.Batches })
	return lo.SumBy(input.Courses, func(course model.Course) uint64 {
		return course.WeeklyLectures*uint64(len(input.Divisions)) + course.WeeklyLabs*batches
	})
}

func measure(selection string, seed uint64, testFile string) (duration int64, maxMemory float32, cpuPercentage int64, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "-selection", selection, "-seed", fmt.Sprint(seed), "-file", testFile, "-out", os.DevNull)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	if cmd.ProcessState.ExitCode() != 10 && cmd.ProcessState.ExitCode() != 15 {
		log.Fatalf("an error occurred during the execution of \"evotimetable\" at test \"%v\" using selection \"%v\" and seed \"%v\": %v\n", testFile, selection, seed, stdErr.String())
	} else if cmd.ProcessState.ExitCode() == 15 {
		result = unverified
	} else {
		result = verified
	}
	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Selection", "Seed", "Test", "Departments", "Courses", "Professors", "Rooms", "LabRooms", "Divisions", "Sessions", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Selection,
			fmt.Sprintf("%d", result.Seed),
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Departments),
			fmt.Sprintf("%d", result.Test.Courses),
			fmt.Sprintf("%d", result.Test.Professors),
			fmt.Sprintf("%d", result.Test.Rooms),
			fmt.Sprintf("%d", result.Test.LabRooms),
			fmt.Sprintf("%d", result.Test.Divisions),
			fmt.Sprintf("%d", result.Test.Sessions),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / KB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
