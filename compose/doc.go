// Package compose flattens an artboard.Scene into a single square raster
// image.
//
// Rendering uses gg's software rasterizer. Text and sticker glyphs are
// shaped with HarfBuzz (go-text/typesetting) and drawn as filled outline
// paths, so rotation and scale apply to the vector shapes rather than to
// pre-rendered bitmaps.
//
// Backgrounds may be PNG, JPEG, GIF, WebP, BMP or TIFF. The stretched,
// filtered background is cached by asset digest.
//
// Color emoji fonts (CBDT, sbix, COLR) have no outlines; glyphs from such
// fonts are skipped and logged at Warn level. Supply an outline symbol font
// with WithStickerFont to render emoji stickers.
package compose
