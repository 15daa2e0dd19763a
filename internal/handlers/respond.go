package handlers

import (
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/apperr"
	"github.com/example/laundrypro/internal/models"
)

// ErrorHandler renders every error in the API envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong, please try again"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("[Console] %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(models.Envelope[any]{Message: message})
}

// fail turns a controller error into the console status and user-facing message.
func fail(err error, fallback string) error {
	return fiber.NewError(apperr.HTTPStatus(err), apperr.Message(err, fallback))
}

func success(c *fiber.Ctx, data any) error {
	return c.JSON(models.Envelope[any]{Success: true, Data: data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(models.Envelope[any]{Success: true, Data: data})
}

// formString returns the multipart or urlencoded field key, or nil when absent.
func formString(c *fiber.Ctx, key string) *string {
	if form, err := c.MultipartForm(); err == nil {
		if vals, ok := form.Value[key]; ok && len(vals) > 0 {
			return &vals[0]
		}
		return nil
	}
	if v := c.FormValue(key); v != "" {
		return &v
	}
	return nil
}

func formFloat(c *fiber.Ctx, key string) (*float64, error) {
	v := formString(c, key)
	if v == nil || *v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be a number")
	}
	return &f, nil
}

func formBool(c *fiber.Ctx, key string) (*bool, error) {
	v := formString(c, key)
	if v == nil || *v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be true or false")
	}
	return &b, nil
}

// formUpload reads an optional file part fully into memory.
func formUpload(c *fiber.Ctx, key string) (*models.Upload, error) {
	fh, err := c.FormFile(key)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "could not read "+key)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "could not read "+key)
	}
	return &models.Upload{
		FieldName:   key,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
