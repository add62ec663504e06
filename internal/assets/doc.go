// Package assets provides the report stylesheet and HTML template.
//
// Two kinds of asset exist: a Style is a text/template stylesheet filled
// with palette colors, and a Template is the html/template page layout.
// Both are addressed by a short name and looked up through a Loader.
//
// The built-in report assets are embedded. A deployment can override any
// of them with a directory laid out the same way:
//
//	{dir}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// A Set consults the override directory first and falls back to the
// built-in asset when the override lacks it, so overriding the stylesheet
// alone keeps the built-in layout. Directory reads go through os.Root and
// cannot follow links out of the directory.
package assets
