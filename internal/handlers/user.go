package handlers

import (
	"strconv"

	"github.com/skippergoroye/Accman-Server/internal/middleware"
	"github.com/skippergoroye/Accman-Server/internal/services/user"
	"github.com/skippergoroye/Accman-Server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Find(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	found, err := h.userService.FindByID(c.Context(), uint(id))
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "", found)
}

// Update applies a partial profile update. The body may be JSON or a
// multipart form carrying an optional `image` file.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	claims := middleware.Claims(c)
	if claims == nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	if claims.UserID != uint(id) && !claims.IsAdmin() {
		return utils.Forbidden(c, "Unauthorized to update other users")
	}

	var input user.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	var image *user.ImageUpload
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return utils.BadRequest(c, "Unreadable image file")
		}
		defer file.Close()
		image = &user.ImageUpload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Body:        file,
		}
	}

	updated, err := h.userService.Update(c.Context(), uint(id), input, image)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Success(c, fiber.StatusOK, "User updated successfully", fiber.Map{
		"user": updated,
	})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	hard, err := h.userService.Delete(c.Context(), uint(id), middleware.Claims(c))
	if err != nil {
		return utils.Fail(c, err)
	}

	message := "User has been soft deleted"
	if hard {
		message = "User has been hard deleted"
	}
	return utils.Success(c, fiber.StatusOK, message, nil)
}
