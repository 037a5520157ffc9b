package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/limaJavier/evotimetabling/internal/config"
	"github.com/limaJavier/evotimetabling/internal/export"
	"github.com/limaJavier/evotimetabling/internal/logger"
	"github.com/limaJavier/evotimetabling/pkg/genetic"
	"github.com/limaJavier/evotimetabling/pkg/model"
)

const (
	exitVerified   = 10
	exitUnverified = 15
)

var (
	validFormats = []string{"json", "table", "xlsx", "ics"}
	sortOrders   = map[string]model.SortOrder{
		"slot":       model.SortBySlot,
		"department": model.SortByDepartment,
	}
)

func main() {
	// Define arguments
	configPathPtr := flag.String("config", "", "Path to the configuration file (yaml or json); if empty, config.yaml is looked up in ./config and the working directory")
	filePathPtr := flag.String("file", "", "Path to the input file (json or yaml)")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	formatPtr := flag.String("format", "json", "Output format. Allowed values are: \"json\", \"table\", \"xlsx\" (one sheet per division) and \"ics\" (weekly recurring events), where \"json\" is the default")
	sortPtr := flag.String("sort", "slot", "Output order. Allowed values are: \"slot\" and \"department\", where \"slot\" is the default")
	selectionPtr := flag.String("selection", "", fmt.Sprintf("Selection strategy overriding the configured one. Allowed values are: %v", strings.Join(genetic.SelectionStrategies(), ", ")))
	seedPtr := flag.Uint64("seed", 0, "Random seed overriding the configured one; 0 keeps the configured seed")
	weekPtr := flag.String("week", "", "Date (YYYY-MM-DD) from which the \"ics\" calendar starts; if empty, today is used")
	weeksPtr := flag.Int("weeks", 16, "Number of weeks spanned by the \"ics\" calendar, where 16 is the default")
	flag.Parse()
	format := strings.ToLower(*formatPtr)
	sortStr := strings.ToLower(*sortPtr)
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	// Validate arguments
	if !slices.Contains(validFormats, format) {
		log.Fatalf("%v is not a valid format", format)
	} else if _, ok := sortOrders[sortStr]; !ok {
		log.Fatalf("%v is not a valid sort order", sortStr)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if *weeksPtr <= 0 {
		log.Fatalf("weeks must be positive: %v", *weeksPtr)
	}

	weekStart := time.Now()
	if *weekPtr != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, *weekPtr, time.Local)
		if err != nil {
			log.Fatalf("%v is not a valid week: %v", *weekPtr, err)
		}
		weekStart = parsed
	}

	// Load configuration
	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if *selectionPtr != "" {
		cfg.Genetic.Selection = strings.ToLower(*selectionPtr)
	}
	if *seedPtr != 0 {
		cfg.Genetic.Seed = *seedPtr
	}
	if err := cfg.Genetic.Validate(); err != nil {
		log.Fatalf("invalid genetic parameters: %v", err)
	}

	appLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// Extract input
	input, err := model.InputFromFile(filePath)
	if err != nil {
		appLogger.Fatal("cannot parse input file", zap.String("file", filePath), zap.Error(err))
	}

	// Initialize engines
	options := lo.Must(cfg.Calendar.CatalogOptions()) // Already validated while loading
	catalog, err := model.GenerateTimeSlots(options)
	if err != nil {
		appLogger.Fatal("cannot generate time slots", zap.Error(err))
	}
	timetabler := genetic.NewTimetabler(catalog, cfg.Genetic, appLogger)

	// Build timetable, an interrupt stops the run keeping the best schedule so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedule, err := timetabler.Build(ctx, input)
	if err != nil && schedule == nil {
		appLogger.Fatal("an error occurred during timetable construction", zap.Error(err))
	} else if err != nil {
		appLogger.Warn("timetable construction interrupted, keeping the best schedule found", zap.Error(err))
	}

	// Write output
	records := model.Records(schedule, sortOrders[sortStr])
	var writer io.Writer = os.Stdout
	if outFile != "" {
		file, err := os.Create(outFile)
		if err != nil {
			appLogger.Fatal("cannot create output file", zap.String("file", outFile), zap.Error(err))
		}
		writer = file
	}

	switch format {
	case "table":
		err = writeTable(writer, records)
	case "xlsx":
		err = export.WriteWorkbook(writer, records)
	case "ics":
		err = export.WriteCalendar(writer, records, weekStart, *weeksPtr)
	default:
		err = writeJson(writer, records)
	}
	if err != nil {
		appLogger.Fatal("an error occurred while writing the output", zap.Error(err))
	}

	// Verify timetable correctness
	conflicts := model.EvaluateConflicts(schedule)
	appLogger.Info("timetable built",
		zap.Int("classes", schedule.Len()),
		zap.Float64("fitness", schedule.Fitness()),
		zap.Uint64("room_conflicts", conflicts.Room),
		zap.Uint64("professor_conflicts", conflicts.Professor),
		zap.Uint64("lecture_deficit", conflicts.Lecture),
		zap.Uint64("lab_deficit", conflicts.Lab),
	)

	exitCode := exitVerified
	if !timetabler.Verify(schedule) {
		exitCode = exitUnverified
	}
	// os.Exit skips deferred calls
	if file, ok := writer.(*os.File); ok && file != os.Stdout {
		file.Close()
	}
	appLogger.Sync()
	os.Exit(exitCode)
}

func writeJson(writer io.Writer, records []model.Record) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func writeTable(writer io.Writer, records []model.Record) error {
	table := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "DAY\tSTART\tEND\tCOURSE\tCODE\tPROFESSOR\tROOM\tDIVISION\tBATCH\tDEPARTMENT")
	for _, record := range records {
		fmt.Fprintf(table, "%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
			record.Day,
			record.Start,
			record.End,
			record.Course,
			record.CourseCode,
			record.Professor,
			record.Room,
			record.Division,
			record.Batch,
			record.Department,
		)
	}
	return table.Flush()
}
