package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth    *AuthHandler
	Users   *UsersHandler
	Folders *FoldersHandler
	Files   *FilesHandler
}

// RegisterRoutes mounts the API. Static segments are registered before :id
// so that /folder/root never reaches the id handler.
func RegisterRoutes(router fiber.Router, h *Handlers, requireAuth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Get("/me", requireAuth, h.Auth.Me)

	userRoutes := router.Group("/user")
	userRoutes.Post("/create", h.Users.Create)
	userRoutes.Get("/check-email", h.Users.CheckEmail)

	folderRoutes := router.Group("/folder", requireAuth)
	folderRoutes.Post("/create", h.Folders.Create)
	folderRoutes.Get("/all", h.Folders.All)
	folderRoutes.Get("/root", h.Folders.Root)
	folderRoutes.Get("/:id", h.Folders.Get)
	folderRoutes.Put("/:id", h.Folders.Update)
	folderRoutes.Delete("/:id", h.Folders.Delete)

	fileRoutes := router.Group("/files", requireAuth)
	fileRoutes.Post("/upload", h.Files.Upload)
	fileRoutes.Post("/upload-url", h.Files.UploadURL)
	fileRoutes.Post("/", h.Files.Register)
	fileRoutes.Get("/", h.Files.List)
	fileRoutes.Get("/root", h.Files.ListRoot)
	fileRoutes.Get("/folder/:folderId", h.Files.ListByFolder)
	fileRoutes.Get("/:id/download-url", h.Files.DownloadURL)
	fileRoutes.Get("/:id/download", h.Files.Download)
	fileRoutes.Post("/:id/copy", h.Files.Copy)
	fileRoutes.Put("/:id/move", h.Files.Move)
	fileRoutes.Get("/:id", h.Files.Get)
	fileRoutes.Put("/:id", h.Files.Update)
	fileRoutes.Delete("/:id", h.Files.Delete)
}
