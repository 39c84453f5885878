package app

import (
	"docvault/internal/http/server"
)

type AuthService = server.AuthService

type DocumentService = server.DocumentService

type SearchService = server.SearchService

type FolderService = server.FolderService

type Reindexer = server.Reindexer
