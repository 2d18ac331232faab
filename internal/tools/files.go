package tools

import (
	"context"
	"fmt"

	"github.com/kweiss/deskpilot/internal/registry"
	"github.com/kweiss/deskpilot/pkg/models"
)

func (b *Builtins) fileCapabilities() []registry.Capability {
	return []registry.Capability{
		{
			Name:        "list_files",
			Kind:        models.KindFile,
			Description: "List files in a workspace subfolder by artifact kind.",
			Params: []registry.Param{
				{Name: "kind", Type: "string", Required: true, Description: "document, presentation, spreadsheet, or file."},
			},
			Fn: b.listFiles,
		},
		{
			Name:        "get_file_info",
			Kind:        models.KindFile,
			Description: "Get size and modification time for a workspace file.",
			Params: []registry.Param{
				{Name: "path", Type: "string", Required: true, Description: "File path."},
			},
			Fn: b.getFileInfo,
		},
		{
			Name:        "create_folder",
			Kind:        models.KindFile,
			Description: "Create a named folder under a workspace subfolder.",
			Params: []registry.Param{
				{Name: "kind", Type: "string", Required: true, Description: "document, presentation, spreadsheet, or file."},
				{Name: "name", Type: "string", Required: true, Description: "Folder name."},
			},
			Fn: b.createFolder,
		},
	}
}

func parseKind(args registry.Args) (models.ArtifactKind, error) {
	kind := models.ArtifactKind(args.String("kind"))
	if !kind.Valid() {
		return "", fmt.Errorf("unknown artifact kind %q", args.String("kind"))
	}
	return kind, nil
}

func (b *Builtins) listFiles(ctx context.Context, args registry.Args) (registry.Args, error) {
	kind, err := parseKind(args)
	if err != nil {
		return nil, err
	}
	files, err := b.ws.ListFiles(kind)
	if err != nil {
		return nil, err
	}
	return registry.Args{"status": "ok", "files": files, "count": len(files)}, nil
}

func (b *Builtins) getFileInfo(ctx context.Context, args registry.Args) (registry.Args, error) {
	path, err := requireString(args, "path")
	if err != nil {
		return nil, err
	}
	info, err := b.ws.FileInfo(path)
	if err != nil {
		return nil, err
	}
	return registry.Args{
		"status":   "ok",
		"path":     info.Path,
		"size":     info.Size,
		"modified": info.Modified,
	}, nil
}

func (b *Builtins) createFolder(ctx context.Context, args registry.Args) (registry.Args, error) {
	kind, err := parseKind(args)
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	path, err := b.ws.CreateFolder(kind, name)
	if err != nil {
		return nil, err
	}
	return registry.Args{"status": "ok", "folder_path": path}, nil
}
