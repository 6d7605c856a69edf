package utils

import (
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// OutputPath returns the path of the file generated from srcPath with the
// given extension. The file goes to outDir when it is set, next to the
// source otherwise.
func OutputPath(srcPath, outDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath)) + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(srcPath), base)
	}
	return filepath.Join(outDir, base)
}

// PythonPath is the transpiled module for srcPath.
func PythonPath(srcPath, outDir string) string {
	return OutputPath(srcPath, outDir, ".py")
}

// ASTPath is the AST document for srcPath.
func ASTPath(srcPath, outDir string) string {
	return OutputPath(srcPath, outDir, ".ast.json")
}
