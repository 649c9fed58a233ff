// Package services implements the driving port interfaces.
//
// DocumentStore keeps documents and the current-document pointer in a
// driven.RecordStore. UploadSession and ConversationSession run the upload
// and question flows against a driven.AnalysisService and commit their
// results through the DocumentStore. SettingsService maps dotted keys onto
// domain.AppSettings over a driven.ConfigStore.
//
// Sessions guard their state with a mutex and are safe for concurrent use.
package services
