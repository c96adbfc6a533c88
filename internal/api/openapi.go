package api

import (
	"maps"

	"github.com/JaimeStill/tally/internal/config"
	"github.com/JaimeStill/tally/internal/ingestion"
	"github.com/JaimeStill/tally/pkg/openapi"
)

// NewSpec describes the API module's endpoints relative to its base path.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.AddTag("Files", "Uploaded spreadsheets and their ingestion state")
	spec.AddTag("Ingestion", "Turning registered files into accounting records")
	spec.AddTag("Identities", "Registered accounts and provisional placeholders")
	spec.AddTag("Records", "Materialized accounting records")

	spec.Components.AddSchemas(schemas())
	spec.Components.AddResponses(map[string]*openapi.Response{
		"UnsupportedMediaType": openapi.ErrorResponse("Unsupported file format"),
		"PayloadTooLarge":      openapi.ErrorResponse("Upload exceeds the configured size limit"),
		"Unprocessable":        openapi.ErrorResponse("File could not be decoded, is missing required columns, or has an invalid row"),
	})

	spec.AddPaths(filePaths())
	spec.AddPaths(identityPaths())
	spec.AddPaths(recordPaths())
	spec.AddPaths(ingestionPaths())

	return spec
}

func filePaths() map[string]*openapi.PathItem {
	tags := []string{"Files"}
	return map[string]*openapi.PathItem{
		"/files": {
			Get: &openapi.Operation{
				Summary: "List source files",
				Tags:    tags,
				Parameters: append(pageParams(),
					openapi.QueryParam("filename", "string", "Filename contains (case-insensitive)", false),
					openapi.QueryParam("content_type", "string", "Exact content type", false),
					openapi.QueryParam("processed", "boolean", "Ingestion state", false),
					openapi.QueryParam("uploaded_by", "string", "Uploading account ID", false),
					openapi.QueryParam("uploaded_from", "string", "Lower upload bound (RFC 3339 or YYYY-MM-DD)", false),
					openapi.QueryParam("uploaded_to", "string", "Upper upload bound (RFC 3339 or YYYY-MM-DD)", false),
				),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of source files", "SourceFilePage"),
				},
			},
			Post: &openapi.Operation{
				Summary:     "Upload a spreadsheet",
				Description: "Registers the file and, unless ingest=false, ingests it in the same request.",
				Tags:        tags,
				RequestBody: &openapi.RequestBody{
					Required: true,
					Content: map[string]*openapi.MediaType{
						"multipart/form-data": {
							Schema: openapi.SchemaRef("UploadForm"),
							Encoding: map[string]*openapi.Encoding{
								"file": {ContentType: uploadContentTypes},
							},
						},
					},
				},
				Responses: map[int]*openapi.Response{
					201: openapi.ResponseJSON("File registered", "UploadResponse"),
					400: openapi.ResponseRef("BadRequest"),
					413: openapi.ResponseRef("PayloadTooLarge"),
					415: openapi.ResponseRef("UnsupportedMediaType"),
					422: openapi.ResponseRef("Unprocessable"),
				},
			},
		},
		"/files/search": {
			Post: &openapi.Operation{
				Summary:     "Search source files",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("SourceFileSearch", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of source files", "SourceFilePage"),
					400: openapi.ResponseRef("BadRequest"),
				},
			},
		},
		"/files/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a source file",
				Tags:       tags,
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Source file ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Source file", "SourceFile"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
			Delete: &openapi.Operation{
				Summary:     "Delete a source file",
				Description: "Removes the file, its stored payload, and every record derived from it.",
				Tags:        tags,
				Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Source file ID")},
				Responses: map[int]*openapi.Response{
					204: {Description: "Deleted"},
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
		"/files/{id}/payload": {
			Get: &openapi.Operation{
				Summary:    "Download the original upload",
				Tags:       tags,
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Source file ID")},
				Responses: map[int]*openapi.Response{
					200: {Description: "Raw file bytes"},
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
	}
}

func identityPaths() map[string]*openapi.PathItem {
	tags := []string{"Identities"}
	return map[string]*openapi.PathItem{
		"/identities/placeholders": {
			Get: &openapi.Operation{
				Summary: "List placeholder identities",
				Tags:    tags,
				Parameters: append(pageParams(),
					openapi.QueryParam("external_id", "string", "Exact external identifier", false),
					openapi.QueryParam("name", "string", "Name contains (case-insensitive)", false),
				),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of placeholders", "PlaceholderPage"),
				},
			},
		},
		"/identities/placeholders/search": {
			Post: &openapi.Operation{
				Summary:     "Search placeholder identities",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("PlaceholderSearch", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of placeholders", "PlaceholderPage"),
					400: openapi.ResponseRef("BadRequest"),
				},
			},
		},
		"/identities/placeholders/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find a placeholder identity",
				Tags:       tags,
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Placeholder ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Placeholder", "Placeholder"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
		"/identities/accounts/{external_id}": {
			Get: &openapi.Operation{
				Summary: "Find a registered account by external identifier",
				Tags:    tags,
				Parameters: []*openapi.Parameter{{
					Name:     "external_id",
					In:       "path",
					Required: true,
					Schema:   &openapi.Schema{Type: "string"},
				}},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Account", "Account"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
	}
}

func recordPaths() map[string]*openapi.PathItem {
	tags := []string{"Records"}
	return map[string]*openapi.PathItem{
		"/records": {
			Get: &openapi.Operation{
				Summary: "List accounting records",
				Tags:    tags,
				Parameters: append(pageParams(),
					openapi.QueryParam("source_file_id", "string", "Source file ID", false),
					openapi.QueryParam("account_id", "string", "Linked account ID", false),
					openapi.QueryParam("placeholder_id", "string", "Linked placeholder ID", false),
					openapi.QueryParam("external_id", "string", "Exact external identifier", false),
					openapi.QueryParam("name", "string", "Name contains (case-insensitive)", false),
					openapi.QueryParam("date_from", "string", "Earliest record date (YYYY-MM-DD)", false),
					openapi.QueryParam("date_to", "string", "Latest record date (YYYY-MM-DD)", false),
				),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of records", "RecordPage"),
				},
			},
		},
		"/records/search": {
			Post: &openapi.Operation{
				Summary:     "Search accounting records",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("RecordSearch", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of records", "RecordPage"),
					400: openapi.ResponseRef("BadRequest"),
				},
			},
		},
		"/records/{id}": {
			Get: &openapi.Operation{
				Summary:    "Find an accounting record",
				Tags:       tags,
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Record ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Record", "Record"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
		},
	}
}

func ingestionPaths() map[string]*openapi.PathItem {
	tags := []string{"Ingestion"}
	return map[string]*openapi.PathItem{
		"/files/{id}/ingest": {
			Post: &openapi.Operation{
				Summary:     "Ingest a registered file",
				Description: "Runs once per file; a file that was already processed is rejected.",
				Tags:        tags,
				Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Source file ID")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Ingestion result", "IngestionResult"),
					404: openapi.ResponseRef("NotFound"),
					409: openapi.ResponseRef("Conflict"),
					415: openapi.ResponseRef("UnsupportedMediaType"),
					422: openapi.ResponseRef("Unprocessable"),
				},
			},
		},
		"/ingest": {
			Post: &openapi.Operation{
				Summary:     "Ingest several registered files",
				Description: "Each file commits or fails independently.",
				Tags:        tags,
				RequestBody: openapi.RequestBodyJSON("BatchRequest", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Per-file outcomes", "BatchResponse"),
					400: openapi.ResponseRef("BadRequest"),
				},
			},
		},
	}
}

const uploadContentTypes = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, " +
	"application/vnd.ms-excel, text/csv"

func pageParams() []*openapi.Parameter {
	return []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search query", false),
		openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
	}
}

func pageOf(item string) *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef(item)},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	}
}

func searchOf(filters map[string]*openapi.Schema) *openapi.Schema {
	props := map[string]*openapi.Schema{
		"page":      {Type: "integer"},
		"page_size": {Type: "integer"},
		"search":    {Type: "string"},
		"sort":      {Type: "string"},
	}
	maps.Copy(props, filters)
	return &openapi.Schema{Type: "object", Properties: props}
}

func schemas() map[string]*openapi.Schema {
	str := func() *openapi.Schema { return &openapi.Schema{Type: "string"} }
	id := func() *openapi.Schema { return &openapi.Schema{Type: "string", Format: "uuid"} }
	key := func() *openapi.Schema { return &openapi.Schema{Type: "string", Format: "uuid", ReadOnly: true} }
	ts := func() *openapi.Schema { return &openapi.Schema{Type: "string", Format: "date-time"} }
	date := func() *openapi.Schema { return &openapi.Schema{Type: "string", Format: "date"} }
	num := func() *openapi.Schema { return &openapi.Schema{Type: "string", Description: "Decimal with two fraction digits"} }
	integer := func() *openapi.Schema { return &openapi.Schema{Type: "integer"} }

	minBatch, maxBatch := 1, ingestion.MaxBatchSize

	return map[string]*openapi.Schema{
		"SourceFile": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              key(),
				"filename":        str(),
				"content_type":    str(),
				"size_bytes":      integer(),
				"storage_key":     str(),
				"uploaded_by":     id(),
				"uploaded_at":     ts(),
				"processed":       {Type: "boolean"},
				"records_created": integer(),
				"processed_at":    ts(),
			},
		},
		"SourceFilePage": pageOf("SourceFile"),
		"SourceFileSearch": searchOf(map[string]*openapi.Schema{
			"filename":      str(),
			"content_type":  str(),
			"processed":     {Type: "boolean"},
			"uploaded_by":   id(),
			"uploaded_from": ts(),
			"uploaded_to":   ts(),
		}),
		"UploadForm": {
			Type:     "object",
			Required: []string{"file"},
			Properties: map[string]*openapi.Schema{
				"file":        {Type: "string", Format: "binary"},
				"ingest":      {Type: "boolean", Default: true},
				"uploaded_by": id(),
			},
		},
		"UploadResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file":   openapi.SchemaRef("SourceFile"),
				"result": openapi.SchemaRef("IngestionResult"),
			},
		},
		"Account": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          key(),
				"external_id": str(),
				"first_name":  str(),
				"last_name":   str(),
				"email":       str(),
				"role":        str(),
				"created_at":  ts(),
			},
		},
		"Placeholder": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          key(),
				"name":        str(),
				"external_id": str(),
				"email":       str(),
				"created_at":  ts(),
			},
		},
		"PlaceholderPage": pageOf("Placeholder"),
		"PlaceholderSearch": searchOf(map[string]*openapi.Schema{
			"external_id": str(),
			"name":        str(),
		}),
		"Record": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             key(),
				"source_file_id": id(),
				"account_id":     id(),
				"placeholder_id": id(),
				"external_id":    str(),
				"name":           str(),
				"date":           date(),
				"amount":         num(),
				"description":    str(),
				"salary":         num(),
				"paid_at":        ts(),
				"email":          str(),
				"created_at":     ts(),
			},
		},
		"RecordPage": pageOf("Record"),
		"RecordSearch": searchOf(map[string]*openapi.Schema{
			"source_file_id": id(),
			"account_id":     id(),
			"placeholder_id": id(),
			"external_id":    str(),
			"name":           str(),
			"date_from":      ts(),
			"date_to":        ts(),
		}),
		"IngestionResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file_id":              id(),
				"records_created":      integer(),
				"registered":           integer(),
				"provisional":          integer(),
				"unidentified":         integer(),
				"placeholders_created": integer(),
				"duration_ms":          integer(),
			},
		},
		"BatchRequest": {
			Type:     "object",
			Required: []string{"file_ids"},
			Properties: map[string]*openapi.Schema{
				"file_ids": {
					Type:     "array",
					Items:    id(),
					MinItems: &minBatch,
					MaxItems: &maxBatch,
				},
			},
		},
		"BatchItem": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file_id": id(),
				"result":  openapi.SchemaRef("IngestionResult"),
				"error":   str(),
				"status":  integer(),
			},
		},
		"BatchResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"items": {Type: "array", Items: openapi.SchemaRef("BatchItem")},
			},
		},
	}
}
