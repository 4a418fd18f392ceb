package handlers

import (
	"net/http"

	"fuelmate-api/middleware"
	"fuelmate-api/services"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	user, err := h.profiles.Get(ctx, middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	user, err := h.profiles.Update(ctx, middleware.GetUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UploadProfilePicture accepts a multipart "profilePicture" image
func (h *Handler) UploadProfilePicture(c *gin.Context) {
	if h.maxUpload > 0 {
		// headroom for the multipart envelope
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	}
	file, err := c.FormFile("profilePicture")
	if err != nil {
		badRequest(c, "No file uploaded")
		return
	}
	src, err := file.Open()
	if err != nil {
		badRequest(c, "Could not read uploaded file")
		return
	}
	defer src.Close()

	ctx, cancel := h.ctx(c)
	defer cancel()
	public, err := h.profiles.UploadPicture(ctx, middleware.GetUserID(c), file.Filename, file.Size, src)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Profile picture uploaded successfully",
		"profilePicture": public,
	})
}

func (h *Handler) DeleteProfilePicture(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.profiles.DeletePicture(ctx, middleware.GetUserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile picture deleted successfully"})
}
