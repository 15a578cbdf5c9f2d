package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docmanager/internal/http/middleware"
	"docmanager/internal/model"
	"docmanager/internal/service"
)

type createDocumentRequest struct {
	Name        string `json:"name"`
	ParentID    int64  `json:"parent_id"`
	Kind        string `json:"kind" enums:"dir,file"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
}

type createDocumentResponse struct {
	ID int64 `json:"id"`
}

type moveDocumentRequest struct {
	DestinationID int64 `json:"destination_id"`
}

type treeResponse struct {
	Documents []*model.Document `json:"documents"`
}

type filesResponse struct {
	DirectoryID int64            `json:"directory_id"`
	Files       []model.Document `json:"files"`
}

// ownerFromCtx returns the id set by middleware.RequireAuth. Routes behind it
// always have one; a miss means the route was mounted without the guard.
func ownerFromCtx(c *fiber.Ctx) (int64, error) {
	id, ok := middleware.OwnerID(c)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	return id, nil
}

func idParam(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func treeBody(root *model.Document) treeResponse {
	docs := root.Children
	if docs == nil {
		docs = []*model.Document{}
	}
	return treeResponse{Documents: docs}
}

// GetTree returns every document of the caller as a nested tree.
//
// @Summary Document tree
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} treeResponse
// @Failure 401 {object} errorPayload
// @Router /documents/tree [get]
func GetTree(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerFromCtx(c)
		if err != nil {
			return err
		}
		root, err := docs.Tree(c.UserContext(), owner)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(treeBody(root))
	}
}

// GetDirectoryTree returns the caller's directories, used to pick a move destination.
//
// @Summary Directory tree
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} treeResponse
// @Failure 401 {object} errorPayload
// @Router /documents/directories [get]
func GetDirectoryTree(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerFromCtx(c)
		if err != nil {
			return err
		}
		root, err := docs.DirectoryTree(c.UserContext(), owner)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(treeBody(root))
	}
}

// ListFiles returns the files directly inside one directory.
//
// @Summary Files of a directory
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Directory ID"
// @Success 200 {object} filesResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /directories/{id}/files [get]
func ListFiles(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerFromCtx(c)
		if err != nil {
			return err
		}
		dirID, ok := idParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		files, err := docs.ListFiles(c.UserContext(), owner, dirID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(filesResponse{DirectoryID: dirID, Files: files})
	}
}

// GetDocument returns one document with its parent's name.
//
// @Summary Document detail
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerFromCtx(c)
		if err != nil {
			return err
		}
		id, ok := idParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docs.Get(c.UserContext(), owner, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// CreateDocument adds a directory or a file.
//
// @Summary Create a document
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createDocumentRequest true "Document"
// @Success 201 {object} createDocumentResponse
// @Failure 400 {object} errorPayload
// @Router /documents [post]
func CreateDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerFromCtx(c)
		if err != nil {
			return err
		}
		var req createDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		id, err := docs.Create(c.UserContext(), service.CreateDocumentInput{
			OwnerID:     owner,
			ParentID:    req.ParentID,
			Name:        req.Name,
			Kind:        req.Kind,
			Extension:   req.Extension,
			Description: req.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Location("/documents/" + strconv.FormatInt(id, 10))
		return c.Status(fiber.StatusCreated).JSON(createDocumentResponse{ID: id})
	}
}

// MoveDocument puts a file under another directory, or at the top level when
// destination_id is 0. Directories cannot be moved.
//
// @Summary Move a file
// @Tags documents
// @Accept json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param body body moveDocumentRequest true "Destination"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/move [post]
func MoveDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := ownerFromCtx(c)
		if err != nil {
			return err
		}
		id, ok := idParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req moveDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.DestinationID < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DESTINATION", "destination is not one of your directories")
		}

		if err := docs.Move(c.UserContext(), owner, id, req.DestinationID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
