package handler

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"assetvault/internal/config"
	"assetvault/internal/http/middleware"
	"assetvault/internal/model"
	"assetvault/internal/service"
)

var validate = validator.New()

type initiateUploadRequest struct {
	FileName    string   `json:"file_name" validate:"required"`
	ContentType string   `json:"content_type" validate:"required"`
	AssetType   string   `json:"asset_type"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type updateAssetRequest struct {
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	AssetType   *string   `json:"asset_type"`
	Status      *string   `json:"status"`
}

// HealthCheck reports readiness, including database connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "DB_UNAVAILABLE", "database unreachable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// LivenessProbe reports process liveness only.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	}
}

// InitiateUpload registers a new asset and hands back a presigned upload URL.
func InitiateUpload(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req initiateUploadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "file_name and content_type are required")
		}

		target, err := svc.InitiateUpload(c.Context(), middleware.OwnerID(c), service.InitiateUploadInput{
			FileName:    req.FileName,
			ContentType: req.ContentType,
			AssetType:   req.AssetType,
			Description: req.Description,
			Tags:        req.Tags,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(target)
	}
}

// ListAssets returns one page of the caller's assets, filtered and cursor-paginated.
func ListAssets(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := service.ListQuery{
			Tags:      queryTags(c),
			AssetType: c.Query("asset_type"),
			Cursor:    c.Query("cursor"),
		}
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer")
			}
			q.Limit = limit
		}

		result, err := svc.List(c.Context(), middleware.OwnerID(c), q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(result)
	}
}

// queryTags collects tag filters from repeated tags params, splitting
// comma-separated values inside each.
func queryTags(c *fiber.Ctx) []string {
	var tags []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("tags") {
		for _, tag := range strings.Split(string(raw), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// GetAsset returns one asset with a fresh presigned download URL.
func GetAsset(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := assetID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "asset id must be a UUID")
		}

		download, err := svc.Get(c.Context(), middleware.OwnerID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(download)
	}
}

// UpdateAsset applies a partial metadata patch. Absent fields are untouched.
func UpdateAsset(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := assetID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "asset id must be a UUID")
		}

		var req updateAssetRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		patch := service.AssetPatch{
			Description: req.Description,
			Tags:        req.Tags,
			AssetType:   req.AssetType,
		}
		if req.Status != nil {
			status := model.Status(*req.Status)
			patch.Status = &status
		}

		asset, err := svc.Update(c.Context(), middleware.OwnerID(c), id, patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(asset)
	}
}

// DeleteAsset removes the stored object and its metadata record.
func DeleteAsset(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := assetID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "asset id must be a UUID")
		}

		if err := svc.Delete(c.Context(), middleware.OwnerID(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func assetID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", err
	}
	return id, nil
}

// RegisterRoutes wires all HTTP routes. Asset routes sit behind the source IP
// allowlist and credential extraction, so every handler can rely on
// middleware.OwnerID being set.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.AssetService, auth config.AuthConfig) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		return c.SendFile("./openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(swaggerUIPage)
	})

	assets := app.Group("/assets",
		middleware.SourceIPAllowlist(auth.AllowedSourceIPs),
		middleware.Credentials(),
	)
	assets.Post("/initiate-upload", InitiateUpload(svc))
	assets.Get("/", ListAssets(svc))
	assets.Get("/:id", GetAsset(svc))
	assets.Put("/:id", UpdateAsset(svc))
	assets.Delete("/:id", DeleteAsset(svc))
}

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>assetvault API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: "/openapi.yaml", dom_id: "#swagger-ui"});
  </script>
</body>
</html>`
