// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"sponsormatch-workers/internal/common/validation"
	deduplicateconnections "sponsormatch-workers/internal/workers/connections/deduplicate-connections"
	expressinterest "sponsormatch-workers/internal/workers/matching/express-interest"
	generatematches "sponsormatch-workers/internal/workers/matching/generate-matches"
	listmatches "sponsormatch-workers/internal/workers/matching/list-matches"
	searchmatches "sponsormatch-workers/internal/workers/matching/search-matches"
	updatematchoverlay "sponsormatch-workers/internal/workers/matching/update-match-overlay"
	invalidateprofilecache "sponsormatch-workers/internal/workers/profiles/invalidate-profile-cache"
	"sponsormatch-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

// inputSchemas maps each task type to the schema its handler validates against.
var inputSchemas = map[string]func() validation.JSONSchema{
	generatematches.TaskType:        generatematches.GetInputSchema,
	listmatches.TaskType:            listmatches.GetInputSchema,
	updatematchoverlay.TaskType:     updatematchoverlay.GetInputSchema,
	expressinterest.TaskType:        expressinterest.GetInputSchema,
	searchmatches.TaskType:          searchmatches.GetInputSchema,
	deduplicateconnections.TaskType: deduplicateconnections.GetInputSchema,
	invalidateprofilecache.TaskType: invalidateprofilecache.GetInputSchema,
}

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "sync-schemas":
		err = runSyncSchemas(os.Args[2:])
	default:
		help()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID (e.g., matching.match.generate)")
	displayName := fs.String("displayName", "", "Display Name")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (e.g., matching)")
	taskType := fs.String("taskType", "", "Zeebe task type (e.g., generate-matches)")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", "planned", "Implementation status (planned, in-progress, completed, verified)")
	_ = fs.Parse(args)

	if *id == "" || *displayName == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return fmt.Errorf("id, displayName, category and taskType are required")
	}
	if err := validation.ValidateActivityNaming(*id); err != nil {
		return err
	}
	if !registry.ImplementationStatus(*status).Valid() {
		return fmt.Errorf("unknown status: %s", *status)
	}

	reg, err := registry.LoadRegistry(*path)
	if os.IsNotExist(err) {
		reg, err = &registry.ActivityRegistry{Version: "1.0.0"}, nil
	}
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, existing := range reg.Activities {
		if existing.ID == *id {
			return fmt.Errorf("activity with ID %s already exists", *id)
		}
	}

	activity := registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: registry.ImplementationStatus(*status),
		ErrorCodes:           []string{},
		Timeout:              "10s",
		Workflows:            []string{},
		Tags:                 []string{},
	}
	if schemaFn, ok := inputSchemas[*taskType]; ok {
		if activity.InputSchema, err = registry.SchemaToMap(schemaFn()); err != nil {
			return err
		}
	}

	reg.Activities = append(reg.Activities, activity)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, etc.)")
	value := fs.String("value", "", "New value for the field")
	_ = fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field and value are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var target *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == *id {
			target = &reg.Activities[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("activity with ID %s not found", *id)
	}

	switch *field {
	case "status":
		status := registry.ImplementationStatus(*value)
		if !status.Valid() {
			return fmt.Errorf("unknown status: %s", *value)
		}
		target.ImplementationStatus = status
	case "version":
		target.Version = *value
	case "displayName":
		target.DisplayName = *value
	case "description":
		target.Description = *value
	case "category":
		target.Category = *value
	case "taskType":
		target.TaskType = *value
	case "timeout":
		target.Timeout = *value
		if _, err := target.TimeoutDuration(); err != nil {
			return err
		}
	case "retries":
		retries, err := strconv.Atoi(*value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		target.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	_ = fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}

	taskTypes := make([]string, 0, len(inputSchemas))
	for tt := range inputSchemas {
		taskTypes = append(taskTypes, tt)
	}
	if missing := reg.Missing(taskTypes); len(missing) > 0 {
		return fmt.Errorf("workers without a registry entry: %v", missing)
	}

	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

// runSyncSchemas overwrites each activity's inputSchema with the schema its
// handler enforces.
func runSyncSchemas(args []string) error {
	fs := flag.NewFlagSet("sync-schemas", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	_ = fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	synced := 0
	for i := range reg.Activities {
		schemaFn, ok := inputSchemas[reg.Activities[i].TaskType]
		if !ok {
			continue
		}
		schema, err := registry.SchemaToMap(schemaFn())
		if err != nil {
			return fmt.Errorf("activity %s: %w", reg.Activities[i].ID, err)
		}
		reg.Activities[i].InputSchema = schema
		synced++
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Synced %d input schemas.\n", synced)
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add           Add a new activity to the registry
  update        Update an existing activity's field
  validate      Validate the registry file against the built-in workers
  sync-schemas  Rewrite input schemas from the worker definitions
  help          Show this help message

Examples:
  registry-updater add -id matching.match.rescore -displayName "Rescore Matches" -category matching -taskType rescore-matches
  registry-updater update -id matching.match.generate -field status -value verified
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.`)
}
